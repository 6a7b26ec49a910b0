package cmd

import (
	"fmt"
	"strconv"

	"github.com/rustyeddy/tradeledger/ledger"
	"github.com/rustyeddy/tradeledger/report"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "List open positions, most recent entry first",
	Args:  cobra.NoArgs,
	RunE:  runOpen,
}

var closedCmd = &cobra.Command{
	Use:   "closed",
	Short: "List closed trades from the last N days",
	Args:  cobra.NoArgs,
	RunE:  runClosed,
}

var tradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Show one trade by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrade,
}

var closedDays int

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(closedCmd)
	rootCmd.AddCommand(tradeCmd)

	closedCmd.Flags().IntVar(&closedDays, "days", 7, "lookback window in days")
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	trades, err := s.ListOpenPositions()
	if err != nil {
		return fmt.Errorf("list open positions: %w", err)
	}

	fmt.Println(report.FormatTradesOrg(trades))
	return nil
}

func runClosed(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	trades, err := s.ListClosedTrades(closedDays)
	if err != nil {
		return fmt.Errorf("list closed trades: %w", err)
	}

	fmt.Println(report.FormatTradesOrg(trades))
	return nil
}

func runTrade(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("trade id must be numeric: %w", err)
	}

	t, err := s.GetTrade(ledger.TradeID(id))
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(report.FormatTradeOrg(t))
	return nil
}

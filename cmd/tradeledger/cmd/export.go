package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/tradeledger/ledger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export closed trades to CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportOut  string
	exportDays int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "trades.csv", "output file")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "lookback window in days (0 = full history)")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var trades []ledger.Trade
	if exportDays > 0 {
		trades, err = s.ListClosedTrades(exportDays)
	} else {
		trades, err = s.ClosedTradesBetween(time.Time{}, time.Time{})
	}
	if err != nil {
		return fmt.Errorf("list closed trades: %w", err)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	defer f.Close()

	if err := ledger.ExportCSV(f, trades); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("wrote %d trades to %s\n", len(trades), exportOut)
	return nil
}

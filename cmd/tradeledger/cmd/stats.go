package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradeledger/report"
	"github.com/rustyeddy/tradeledger/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate performance over closed trades",
	Long: `Compute win rate, average profit/loss and best/worst trade over
closed trades. With no flags the whole history is aggregated;
--from/--to restrict the window to inclusive dates.

Examples:
  tradeledger stats
  tradeledger stats --from 2026-08-01 --to 2026-08-23`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsFrom string
	statsTo   string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsFrom, "from", "", "start date YYYY-MM-DD (inclusive)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "end date YYYY-MM-DD (inclusive)")
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rng, period, err := parseRange(statsFrom, statsTo)
	if err != nil {
		return err
	}

	st, err := stats.NewEngine(s).Compute(rng)
	if err != nil {
		return fmt.Errorf("compute statistics: %w", err)
	}

	out, err := report.FormatStatsOrg(period, st)
	if err != nil {
		return fmt.Errorf("render statistics: %w", err)
	}
	fmt.Println(out)
	return nil
}

func parseRange(from, to string) (*stats.DateRange, string, error) {
	if from == "" && to == "" {
		return nil, "all time", nil
	}

	var rng stats.DateRange
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, "", fmt.Errorf("parse --from: %w", err)
		}
		rng.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, "", fmt.Errorf("parse --to: %w", err)
		}
		rng.To = t
	}

	period := fmt.Sprintf("%s..%s", orOpen(from), orOpen(to))
	return &rng, period, nil
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}

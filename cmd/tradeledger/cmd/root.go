package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradeledger/config"
	"github.com/rustyeddy/tradeledger/ledger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradeledger",
	Short: "Query and export the trading bot's trade ledger",
	Long: `Tradeledger is the persistence layer of an automated trading bot.

It records trade entries and exits in a SQLite ledger and answers
performance queries over the closed-trade history:

  - Open positions and closed-trade listings
  - Win rate, average profit/loss, best/worst trade per period
  - CSV export for spreadsheets and external analysis`,
	PersistentPreRunE: loadConfig,
}

var (
	dbPath  string
	cfgFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./tradeledger.sqlite", "path to SQLite ledger DB")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig resolves the DB path from the config file and environment
// when --db was not given explicitly.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("db") {
		dbPath = cfg.Ledger.DBPath
	}
	return nil
}

func openStore() (*ledger.Store, error) {
	s, err := ledger.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

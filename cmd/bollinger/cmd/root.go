package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bollinger/config"
)

var rootCmd = &cobra.Command{
	Use:   "bollinger",
	Short: "Bollinger band tranche strategy backtester and signal scanner",
	Long: `Bollinger turns an OHLCV price series into trading signals and simulates a
rule-based, tranche-sized strategy over history.

It provides tools for:
  - Backtesting the %B/MFI tranche strategy against historical candles
  - Evaluating the latest bar of a series for a trading signal
  - Risk-profile based position sizing with volatility adjustments
  - Journaling trades and equity curves to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig returns the file config when --config is set, the defaults
// otherwise. Flag overrides are applied by the individual commands.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

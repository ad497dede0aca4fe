package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bollinger/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or scaffold a configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("symbol:       %s\n", cfg.Symbol)
		fmt.Printf("capital:      %.2f\n", cfg.Capital)
		fmt.Printf("commission:   %.4f\n", cfg.Commission)
		fmt.Printf("indicators:   window %d, k %.1f, mfi %d\n",
			cfg.Indicators.Window, cfg.Indicators.StdDev, cfg.Indicators.MFIPeriod)
		fmt.Printf("thresholds:   buy %%B %.2f / sell %%B %.2f, mfi %g/%g (filter %v)\n",
			cfg.Signal.BuyPctB, cfg.Signal.SellPctB,
			cfg.Signal.BuyMFI, cfg.Signal.SellMFI, cfg.Signal.UseMFIFilter)
		fmt.Printf("risk level:   %s\n", cfg.Risk.Level)
		if cfg.Journal.Type != "" {
			fmt.Printf("journal:      %s\n", cfg.Journal.Type)
		}
		return nil
	},
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configInitPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", configInitPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitPath, "out", "o", "bollinger.yaml", "output path (.yaml, .yml or .json)")
}

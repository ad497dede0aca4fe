package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bollinger/backtest"
	"github.com/rustyeddy/bollinger/market"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Evaluate the latest bar of a candle CSV for a trading signal",
	Long: `Signal computes indicators over the series and classifies the final bar,
printing the verdict with the band, money-flow and trend context behind it.

Example:
  bollinger signal --candles data/spy.csv --purchase-price 412.50 --target-gain 0.15`,
	RunE: runSignal,
}

var (
	sigCandlesPath string
	sigSymbol      string
	sigPurchase    float64
	sigTargetGain  float64
	sigJSON        bool
)

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().StringVarP(&sigCandlesPath, "candles", "f", "", "path to candle CSV (required)")
	signalCmd.Flags().StringVarP(&sigSymbol, "symbol", "s", "", "symbol label")
	signalCmd.Flags().Float64Var(&sigPurchase, "purchase-price", 0, "externally tracked purchase price")
	signalCmd.Flags().Float64Var(&sigTargetGain, "target-gain", 0, "target gain fraction, e.g. 0.15")
	signalCmd.Flags().BoolVar(&sigJSON, "json", false, "emit the full report as JSON")

	signalCmd.MarkFlagRequired("candles")
}

func runSignal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sigSymbol != "" {
		cfg.Symbol = sigSymbol
	}
	if sigPurchase > 0 {
		cfg.Monitor.PurchasePrice = sigPurchase
	}
	if sigTargetGain > 0 {
		cfg.Monitor.TargetGain = sigTargetGain
	}

	series, err := market.LoadCSV(sigCandlesPath)
	if err != nil {
		return fmt.Errorf("candles: %w", err)
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	r, err := backtest.LatestSignal(series, simCfg, cfg.Monitor.PurchasePrice, cfg.Monitor.TargetGain)
	if err != nil {
		return err
	}

	if sigJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Printf("%s %s close %.2f: %s\n",
		r.Symbol, r.Time.Format("2006-01-02"), r.Close, r.Signal)
	if r.PctB.Valid {
		fmt.Printf("  %%B %.3f  band %.2f..%.2f  width %.4f\n",
			r.PctB.F, r.Lower.Or(0), r.Upper.Or(0), r.BandWidth.Or(0))
	} else {
		fmt.Println("  %B undefined (insufficient history or zero-width band)")
	}
	if r.MFI.Valid {
		fmt.Printf("  MFI %.1f  deviation %+.2f%%\n", r.MFI.F, r.Deviation.Or(0))
	}
	if r.Riding.IsRiding {
		fmt.Printf("  band-riding: %d touches, strength %d", r.Riding.TouchCount, r.Riding.Strength)
		if r.Riding.IsStrongTrend {
			fmt.Printf(", strong trend, trailing stop %.2f", r.Riding.TrailingStop)
		}
		fmt.Println()
	}
	fmt.Printf("  lean: buy %d / sell %d\n", r.BuyProbability, r.SellProbability)
	fmt.Printf("  sizing (%s): first tranche %.0f%%, stop %.0f%%, target %.0f%%\n",
		r.Profile.Level, r.Profile.BuyTranches[0]*100,
		r.Profile.StopLossPct*100, r.Profile.TargetPct*100)
	if r.CurrentGain.Valid {
		fmt.Printf("  position: %+.2f%% vs purchase", r.CurrentGain.F*100)
		switch {
		case r.TargetReached:
			fmt.Print(" (target reached)")
		case r.NearTarget:
			fmt.Print(" (near target, consider partial profit)")
		}
		fmt.Println()
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/bollinger/backtest"
	"github.com/rustyeddy/bollinger/market"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the tranche strategy over a historical candle CSV",
	Long: `Backtest simulates the %B/MFI tranche strategy bar by bar over a candle CSV
(time,open,high,low,close,volume) and prints the performance summary.

Example:
  bollinger backtest --candles data/spy.csv --level high --capital 25000`,
	RunE: runBacktest,
}

var (
	btCandlesPath string
	btSymbol      string
	btCapital     float64
	btCommission  float64
	btLevel       string
	btRiskFree    float64
	btMFIFilter   bool
	btOrgPath     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btCandlesPath, "candles", "f", "", "path to candle CSV (time,open,high,low,close,volume) (required)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "symbol label for the run")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "b", 0, "starting capital (overrides config)")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", -1, "commission rate per leg, e.g. 0.001")
	backtestCmd.Flags().StringVarP(&btLevel, "level", "l", "", "risk level: low, medium or high")
	backtestCmd.Flags().Float64Var(&btRiskFree, "risk-free", 0.03, "annual risk-free rate for the Sharpe ratio")
	backtestCmd.Flags().BoolVar(&btMFIFilter, "mfi-filter", false, "gate threshold signals on MFI")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an org-mode report to this path")

	backtestCmd.MarkFlagRequired("candles")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if btSymbol != "" {
		cfg.Symbol = btSymbol
	}
	if btCapital > 0 {
		cfg.Capital = btCapital
	}
	if btCommission >= 0 {
		cfg.Commission = btCommission
	}
	if btLevel != "" {
		cfg.Risk.Level = btLevel
	}
	if btMFIFilter {
		cfg.Signal.UseMFIFilter = true
	}

	series, err := market.LoadCSV(btCandlesPath)
	if err != nil {
		return fmt.Errorf("candles: %w", err)
	}

	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	j, err := cfg.OpenJournal()
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer j.Close()
	simCfg.Journal = j

	s, err := backtest.Run(simCfg, series, btRiskFree)
	if err != nil {
		return err
	}

	fmt.Printf("Backtest %s: %s to %s (%d bars)\n",
		s.Symbol, s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Bars)
	fmt.Printf("  Final Value:   $%.2f (from $%.2f)\n", s.Final, s.Initial)
	fmt.Printf("  Total Return:  %.2f%%\n", s.Metrics.TotalReturn*100)
	fmt.Printf("  Annualized:    %.2f%%\n", s.Metrics.AnnualReturn*100)
	fmt.Printf("  Max Drawdown:  %.2f%%\n", s.Metrics.MaxDrawdown*100)
	fmt.Printf("  Sharpe:        %.2f\n", s.Metrics.Sharpe)
	fmt.Printf("  Trades:        %d (%d round-trips, %.1f%% wins)\n",
		len(s.Result.Trades), s.Metrics.RoundTrips, s.Metrics.WinRate*100)
	fmt.Printf("  Buy & Hold:    %.2f%% (outperformance %+.2f%%)\n",
		s.BuyHoldReturn*100, s.Outperformance()*100)
	if s.Result.Skipped > 0 {
		fmt.Printf("  Skipped fills: %d\n", s.Result.Skipped)
	}

	if btOrgPath != "" {
		if err := s.WriteOrg(btOrgPath); err != nil {
			return fmt.Errorf("org report: %w", err)
		}
		fmt.Printf("  Report:        %s\n", btOrgPath)
	}
	return nil
}

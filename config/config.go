package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/journal"
	"github.com/rustyeddy/bollinger/risk"
	"github.com/rustyeddy/bollinger/signal"
	"github.com/rustyeddy/bollinger/sim"
)

// Config is the complete configuration of one run. It is an explicit value
// handed into each call; nothing here is process-global, so concurrent runs
// over different symbols cannot contaminate each other.
type Config struct {
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Capital      float64 `json:"capital" yaml:"capital"`
	Commission   float64 `json:"commission" yaml:"commission"`
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate"`

	Indicators IndicatorConfig `json:"indicators" yaml:"indicators"`
	Signal     SignalConfig    `json:"signal" yaml:"signal"`
	Risk       RiskConfig      `json:"risk" yaml:"risk"`
	Monitor    MonitorConfig   `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	Journal    JournalConfig   `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// IndicatorConfig contains the rolling window parameters.
type IndicatorConfig struct {
	Window    int     `json:"window" yaml:"window"`
	StdDev    float64 `json:"std_dev" yaml:"std_dev"`
	MFIPeriod int     `json:"mfi_period" yaml:"mfi_period"`
}

// SignalConfig contains the classifier thresholds.
type SignalConfig struct {
	BuyPctB      float64 `json:"buy_pctb" yaml:"buy_pctb"`
	SellPctB     float64 `json:"sell_pctb" yaml:"sell_pctb"`
	BuyMFI       float64 `json:"buy_mfi" yaml:"buy_mfi"`
	SellMFI      float64 `json:"sell_mfi" yaml:"sell_mfi"`
	UseMFIFilter bool    `json:"use_mfi_filter" yaml:"use_mfi_filter"`
}

// RiskConfig selects the tranche profile and trend detection window.
type RiskConfig struct {
	Level          string `json:"level" yaml:"level"` // low, medium, high
	RidingLookback int    `json:"riding_lookback,omitempty" yaml:"riding_lookback,omitempty"`
}

// MonitorConfig tracks an externally held purchase for the signal report.
type MonitorConfig struct {
	PurchasePrice float64 `json:"purchase_price,omitempty" yaml:"purchase_price,omitempty"`
	TargetGain    float64 `json:"target_gain,omitempty" yaml:"target_gain,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns the standard configuration: 20/2.0/14 indicators, 0.2/0.8
// thresholds, medium risk, no journal.
func Default() *Config {
	return &Config{
		Symbol:     "SPY",
		Capital:    10000,
		Commission: 0.001,
		Indicators: IndicatorConfig{Window: 20, StdDev: 2.0, MFIPeriod: 14},
		Signal:     SignalConfig{BuyPctB: 0.2, SellPctB: 0.8, BuyMFI: 20, SellMFI: 80},
		Risk:       RiskConfig{Level: "medium"},
	}
}

// LoadFromFile loads configuration from a file, trying YAML first and falling
// back to JSON. The result is validated before it is returned.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the engine would refuse anyway, with
// friendlier errors up front.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Capital <= 0 {
		return fmt.Errorf("capital must be positive, got %g", c.Capital)
	}
	if c.Commission < 0 || c.Commission >= 1 {
		return fmt.Errorf("commission %g out of [0,1)", c.Commission)
	}
	if err := c.params().Validate(); err != nil {
		return err
	}
	if err := c.signalConfig().Validate(); err != nil {
		return err
	}
	level, err := risk.ParseLevel(c.Risk.Level)
	if err != nil {
		return err
	}
	if err := risk.ProfileFor(level).Validate(); err != nil {
		return err
	}
	if c.Monitor.PurchasePrice < 0 {
		return fmt.Errorf("monitor.purchase_price must not be negative")
	}
	switch c.Journal.Type {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type %q unknown (want csv or sqlite)", c.Journal.Type)
	}
	return nil
}

func (c *Config) params() indicators.Params {
	return indicators.Params{
		Window:    c.Indicators.Window,
		StdDev:    c.Indicators.StdDev,
		MFIPeriod: c.Indicators.MFIPeriod,
	}
}

func (c *Config) signalConfig() signal.Config {
	return signal.Config{
		BuyPctB:      c.Signal.BuyPctB,
		SellPctB:     c.Signal.SellPctB,
		BuyMFI:       c.Signal.BuyMFI,
		SellMFI:      c.Signal.SellMFI,
		UseMFIFilter: c.Signal.UseMFIFilter,
	}
}

// SimConfig assembles the engine configuration. The optional journal must be
// opened separately with OpenJournal and attached by the caller.
func (c *Config) SimConfig() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	level, err := risk.ParseLevel(c.Risk.Level)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Symbol:         c.Symbol,
		InitialCapital: c.Capital,
		CommissionRate: c.Commission,
		Params:         c.params(),
		Signal:         c.signalConfig(),
		Profile:        risk.ProfileFor(level),
		RidingLookback: c.Risk.RidingLookback,
	}, nil
}

// OpenJournal opens the configured journal backend, or a no-op journal when
// none is configured.
func (c *Config) OpenJournal() (journal.Journal, error) {
	switch c.Journal.Type {
	case "csv":
		trades := c.Journal.TradesFile
		equity := c.Journal.EquityFile
		if trades == "" || equity == "" {
			return nil, fmt.Errorf("csv journal needs trades_file and equity_file")
		}
		return journal.NewCSV(trades, equity)
	case "sqlite":
		if c.Journal.DBPath == "" {
			return nil, fmt.Errorf("sqlite journal needs db_path")
		}
		return journal.NewSQLite(c.Journal.DBPath)
	case "":
		return journal.Nop{}, nil
	}
	return nil, fmt.Errorf("journal.type %q unknown", c.Journal.Type)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	sc, err := cfg.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, "SPY", sc.Symbol)
	assert.Equal(t, 20, sc.Params.Window)
	assert.InDelta(t, 0.001, sc.CommissionRate, 1e-12)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty symbol", func(c *Config) { c.Symbol = "" }},
		{"zero capital", func(c *Config) { c.Capital = 0 }},
		{"commission past one", func(c *Config) { c.Commission = 1 }},
		{"tiny window", func(c *Config) { c.Indicators.Window = 1 }},
		{"inverted thresholds", func(c *Config) { c.Signal.BuyPctB = 0.9 }},
		{"unknown level", func(c *Config) { c.Risk.Level = "reckless" }},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadYAML(t *testing.T) {
	body := `
symbol: AAPL
capital: 25000
commission: 0.0005
indicators:
  window: 20
  std_dev: 2.0
  mfi_period: 14
signal:
  buy_pctb: 0.2
  sell_pctb: 0.8
  buy_mfi: 20
  sell_mfi: 80
  use_mfi_filter: true
risk:
  level: high
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", cfg.Symbol)
	assert.InDelta(t, 25000, cfg.Capital, 1e-9)
	assert.True(t, cfg.Signal.UseMFIFilter)
	assert.Equal(t, "high", cfg.Risk.Level)
}

func TestLoadJSON(t *testing.T) {
	body := `{
  "symbol": "MSFT",
  "capital": 5000,
  "commission": 0.001,
  "indicators": {"window": 20, "std_dev": 2.0, "mfi_period": 14},
  "signal": {"buy_pctb": 0.2, "sell_pctb": 0.8, "buy_mfi": 20, "sell_mfi": 80},
  "risk": {"level": "low"}
}`
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", cfg.Symbol)
	assert.Equal(t, "low", cfg.Risk.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbol: ''\ncapital: -5\n"), 0644))
	_, err := LoadFromFile(path)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Symbol = "QQQ"

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, cfg.SaveToFile(path))
		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg.Symbol, got.Symbol, name)
		assert.Equal(t, cfg.Indicators, got.Indicators, name)
	}
}

func TestOpenJournal(t *testing.T) {
	cfg := Default()
	j, err := cfg.OpenJournal()
	require.NoError(t, err)
	require.NoError(t, j.Close())

	dir := t.TempDir()
	cfg.Journal = JournalConfig{
		Type:       "csv",
		TradesFile: filepath.Join(dir, "trades.csv"),
		EquityFile: filepath.Join(dir, "equity.csv"),
	}
	j, err = cfg.OpenJournal()
	require.NoError(t, err)
	require.NoError(t, j.Close())

	cfg.Journal = JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "run.db")}
	j, err = cfg.OpenJournal()
	require.NoError(t, err)
	require.NoError(t, j.Close())

	cfg.Journal = JournalConfig{Type: "csv"}
	_, err = cfg.OpenJournal()
	assert.Error(t, err)
}

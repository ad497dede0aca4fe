package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrade(ts time.Time) TradeRecord {
	return TradeRecord{
		TradeID:    "01HTEST0000000000000000001",
		Symbol:     "TEST",
		Side:       "buy",
		Price:      100.5,
		Shares:     10,
		Notional:   1005,
		Commission: 1.005,
		Time:       ts,
		Reason:     "buy_signal",
	}
}

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade(ts)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time: ts, Cash: 8994.0, Shares: 10, Value: 9999.0,
	}))
	require.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()
	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one trade")
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "TEST", rows[1][1])
	assert.Equal(t, "buy", rows[1][2])
	assert.Equal(t, "10", rows[1][4])
	assert.Equal(t, "buy_signal", rows[1][8])

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()
	rows, err = csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ts.Format(time.RFC3339), rows[1][0])
}

func TestCSVJournalBadPath(t *testing.T) {
	_, err := NewCSV("/nonexistent/dir/trades.csv", "/nonexistent/dir/equity.csv")
	assert.Error(t, err)
}

func TestCSVJournalHeaderWriteFailure(t *testing.T) {
	// /dev/full accepts the open but fails every write with ENOSPC, which
	// surfaces on the header flush.
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("needs /dev/full")
	}
	_, err := NewCSV("/dev/full", filepath.Join(t.TempDir(), "equity.csv"))
	assert.Error(t, err)
}

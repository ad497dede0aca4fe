// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	writeHeaders := func() error {
		if err := tw.Write([]string{"trade_id", "symbol", "side", "price", "shares", "notional", "commission", "time", "reason"}); err != nil {
			return err
		}
		if err := ew.Write([]string{"time", "cash", "shares", "value"}); err != nil {
			return err
		}
		tw.Flush()
		if err := tw.Error(); err != nil {
			return err
		}
		ew.Flush()
		return ew.Error()
	}
	if err := writeHeaders(); err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}

	return &CSVJournal{tw, ew, tf, ef}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Symbol,
		t.Side,
		f(t.Price),
		strconv.FormatInt(t.Shares, 10),
		f(t.Notional),
		f(t.Commission),
		t.Time.Format(time.RFC3339),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Cash),
		strconv.FormatInt(e.Shares, 10),
		f(e.Value),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

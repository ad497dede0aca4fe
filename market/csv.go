package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted by LoadCSV, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// LoadCSV reads an OHLCV series from a CSV file with columns
// time,open,high,low,close,volume. A header row is detected and skipped.
// Rows must be time-ordered; out-of-order rows are an error rather than
// being silently re-sorted.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses an OHLCV series from r. See LoadCSV for the format.
func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var series Series
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}
		if line == 1 && isHeader(row) {
			continue
		}

		c, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		series = append(series, c)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no candle rows")
	}
	if !series.Sorted() {
		return nil, fmt.Errorf("candles are not time-ordered")
	}
	return series, nil
}

func isHeader(row []string) bool {
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "time" || first == "date" || first == "timestamp"
}

func parseRow(row []string) (Candle, error) {
	if len(row) < 6 {
		return Candle{}, fmt.Errorf("need 6 cols time,open,high,low,close,volume, got %d", len(row))
	}

	ts := strings.TrimSpace(row[0])
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, ts); err == nil {
			break
		}
	}
	if err != nil {
		return Candle{}, fmt.Errorf("bad time %q", ts)
	}

	vals := make([]float64, 5)
	for i := 1; i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad value %q: %w", row[i], err)
		}
		vals[i-1] = v
	}

	return Candle{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

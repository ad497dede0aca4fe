package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT trade_id, symbol, side, price, shares, notional, commission, time, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	err := row.Scan(
		&rec.TradeID,
		&rec.Symbol,
		&rec.Side,
		&rec.Price,
		&rec.Shares,
		&rec.Notional,
		&rec.Commission,
		&rec.Time,
		&rec.Reason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades executed within [start, end), oldest first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, side, price, shares, notional, commission, time, reason
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, trade_id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.Symbol,
			&rec.Side,
			&rec.Price,
			&rec.Shares,
			&rec.Notional,
			&rec.Commission,
			&rec.Time,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity snapshots within [start, end), oldest first.
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, cash, shares, value
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(&rec.Time, &rec.Cash, &rec.Shares, &rec.Value); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary aggregates the ledger: fill counts per side and total commission
// paid. Round-trip win rates come out of the backtest metrics, not the
// journal; this is a sanity view over what actually persisted.
type Summary struct {
	Buys       int
	Sells      int
	BuyValue   float64
	SellValue  float64
	Commission float64
}

func (j *SQLite) Summarize() (Summary, error) {
	rows, err := j.db.Query(`
		SELECT side, COUNT(*), SUM(notional), SUM(commission)
		FROM trades
		GROUP BY side`)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	var s Summary
	for rows.Next() {
		var side string
		var count int
		var notional, commission float64
		if err := rows.Scan(&side, &count, &notional, &commission); err != nil {
			return Summary{}, err
		}
		s.Commission += commission
		switch side {
		case "buy":
			s.Buys = count
			s.BuyValue = notional
		case "sell":
			s.Sells = count
			s.SellValue = notional
		}
	}
	return s, rows.Err()
}

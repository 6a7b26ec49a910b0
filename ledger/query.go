package ledger

import (
	"database/sql"
	"fmt"
	"time"
)

const tradeColumns = `id, timestamp, symbol, mode, entry_price, quantity,
	rsi_entry, macd_entry, bb_entry, volume_ratio,
	ai_confidence, ai_reasoning, entry_fee, status,
	exit_price, pnl_percent, pnl_krw, exit_reason,
	exit_timestamp, holding_minutes, exit_fee`

// GetTrade returns a single trade by id.
func (s *Store) GetTrade(id TradeID) (Trade, error) {
	row := s.db.QueryRow(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ?`, int64(id))

	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return Trade{}, fmt.Errorf("trade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Trade{}, storageErr("get trade", err)
	}
	return t, nil
}

// ListOpenPositions returns all OPEN trades, most recent entry first.
func (s *Store) ListOpenPositions() ([]Trade, error) {
	rows, err := s.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE status = ?
		ORDER BY timestamp DESC, id DESC`, string(StatusOpen))
	if err != nil {
		return nil, storageErr("list open positions", err)
	}
	return collectTrades(rows)
}

// ListClosedTrades returns CLOSED trades whose entry timestamp falls
// within the last sinceDays days, most recent first. sinceDays=0 puts
// the boundary at "now": nothing entered strictly before this instant
// qualifies.
func (s *Store) ListClosedTrades(sinceDays int) ([]Trade, error) {
	if sinceDays < 0 {
		return nil, &ValidationError{Field: "sinceDays", Reason: "must not be negative"}
	}

	cutoff := time.Now().UTC().Add(-time.Duration(sinceDays) * 24 * time.Hour)

	rows, err := s.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE status = ? AND timestamp >= ?
		ORDER BY timestamp DESC, id DESC`, string(StatusClosed), cutoff)
	if err != nil {
		return nil, storageErr("list closed trades", err)
	}
	return collectTrades(rows)
}

// ClosedTradesBetween returns CLOSED trades with entry timestamp in
// [start, end). A zero start or end leaves that side unbounded. Order
// is timestamp descending with id descending as the stable tie-break.
func (s *Store) ClosedTradesBetween(start, end time.Time) ([]Trade, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades WHERE status = ?`
	args := []any{string(StatusClosed)}

	if !start.IsZero() {
		q += ` AND timestamp >= ?`
		args = append(args, start)
	}
	if !end.IsZero() {
		q += ` AND timestamp < ?`
		args = append(args, end)
	}
	q += ` ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, storageErr("list closed trades between", err)
	}
	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]Trade, error) {
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, storageErr("scan trade", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate trades", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrade decodes one raw row into a Trade, including the JSON
// indicator blobs. This is the only place row shape and Trade shape
// meet.
func scanTrade(row rowScanner) (Trade, error) {
	var (
		t       Trade
		id      int64
		mode    string
		status  string
		macdRaw string
		bbRaw   string

		rsi, volRatio, aiConf       sql.NullFloat64
		exitPrice, pnlPct, pnlKRW   sql.NullFloat64
		exitFee                     sql.NullFloat64
		exitReason                  sql.NullString
		exitTS                      sql.NullTime
		holdingMin                  sql.NullInt64
	)

	err := row.Scan(
		&id, &t.Timestamp, &t.Symbol, &mode, &t.EntryPrice, &t.Quantity,
		&rsi, &macdRaw, &bbRaw, &volRatio,
		&aiConf, &t.AIReasoning, &t.EntryFee, &status,
		&exitPrice, &pnlPct, &pnlKRW, &exitReason,
		&exitTS, &holdingMin, &exitFee,
	)
	if err != nil {
		return Trade{}, err
	}

	t.ID = TradeID(id)
	t.Mode = Mode(mode)
	t.Status = Status(status)

	if t.MACDEntry, err = decodeBlob[MACDSnapshot](macdRaw); err != nil {
		return Trade{}, fmt.Errorf("decode macd_entry: %w", err)
	}
	if t.BBEntry, err = decodeBlob[BollingerSnapshot](bbRaw); err != nil {
		return Trade{}, fmt.Errorf("decode bb_entry: %w", err)
	}

	t.RSIEntry = nullFloat(rsi)
	t.VolumeRatio = nullFloat(volRatio)
	t.AIConfidence = nullFloat(aiConf)

	t.ExitPrice = nullFloat(exitPrice)
	t.PnlPercent = nullFloat(pnlPct)
	t.PnlKRW = nullFloat(pnlKRW)
	t.ExitFee = nullFloat(exitFee)
	if exitReason.Valid {
		t.ExitReason = &exitReason.String
	}
	if exitTS.Valid {
		ts := exitTS.Time
		t.ExitTimestamp = &ts
	}
	if holdingMin.Valid {
		m := holdingMin.Int64
		t.HoldingMinutes = &m
	}

	return t, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

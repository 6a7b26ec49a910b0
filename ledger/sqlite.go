package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed trade ledger. One Store (and its single
// *sql.DB) is shared by the ledger, the statistics engine and the
// side-channel recorders; callers inject it rather than opening ad hoc
// connections.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and bootstraps
// the schema. Bootstrap is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storageErr("open", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, storageErr("bootstrap schema", err)
	}

	return &Store{db: db}, nil
}

// DB exposes the shared handle for the learning and risk-event
// recorders, which write to sibling tables in the same database.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordEntry inserts a new OPEN trade and returns its id. The id is
// assigned by the store and strictly increases across inserts.
func (s *Store) RecordEntry(e EntryData) (TradeID, error) {
	if err := validateEntry(e); err != nil {
		return 0, err
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	macd, err := encodeBlob(e.MACDEntry)
	if err != nil {
		return 0, storageErr("encode macd_entry", err)
	}
	bb, err := encodeBlob(e.BBEntry)
	if err != nil {
		return 0, storageErr("encode bb_entry", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO trades
		(timestamp, symbol, mode, entry_price, quantity,
		 rsi_entry, macd_entry, bb_entry, volume_ratio,
		 ai_confidence, ai_reasoning, entry_fee, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts, e.Symbol, string(e.Mode), e.EntryPrice, e.Quantity,
		e.RSIEntry, macd, bb, e.VolumeRatio,
		e.AIConfidence, e.AIReasoning, e.EntryFee, string(StatusOpen),
	)
	if err != nil {
		return 0, storageErr("insert trade", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("last insert id", err)
	}
	return TradeID(id), nil
}

// RecordExit closes an OPEN trade, setting every exit field and the
// CLOSED status in one statement. The WHERE clause doubles as a
// compare-and-swap: closing an absent trade returns ErrNotFound,
// closing twice returns ErrAlreadyClosed.
func (s *Store) RecordExit(id TradeID, x ExitData) error {
	if err := validateExit(x); err != nil {
		return err
	}

	exitTS := x.ExitTimestamp
	if exitTS.IsZero() {
		exitTS = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		UPDATE trades
		SET exit_price = ?, pnl_percent = ?, pnl_krw = ?,
		    exit_reason = ?, exit_timestamp = ?, holding_minutes = ?,
		    exit_fee = ?, status = ?
		WHERE id = ? AND status = ?`,
		x.ExitPrice, x.PnlPercent, x.PnlKRW,
		x.ExitReason, exitTS, x.HoldingMinutes,
		x.ExitFee, string(StatusClosed),
		int64(id), string(StatusOpen),
	)
	if err != nil {
		return storageErr("close trade", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 1 {
		return nil
	}

	// Zero rows: the trade is either absent or already closed.
	var status string
	err = s.db.QueryRow(`SELECT status FROM trades WHERE id = ?`, int64(id)).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("close trade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return storageErr("probe trade status", err)
	}
	return fmt.Errorf("close trade %d: %w", id, ErrAlreadyClosed)
}

func validateEntry(e EntryData) error {
	if e.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "required"}
	}
	if e.Mode != ModePaper && e.Mode != ModeLive {
		return &ValidationError{Field: "mode", Reason: fmt.Sprintf("must be %q or %q", ModePaper, ModeLive)}
	}
	if e.EntryPrice <= 0 {
		return &ValidationError{Field: "entry_price", Reason: "must be positive"}
	}
	if e.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if e.EntryFee < 0 {
		return &ValidationError{Field: "entry_fee", Reason: "must not be negative"}
	}
	if e.AIConfidence != nil && (*e.AIConfidence < 0 || *e.AIConfidence > 1) {
		return &ValidationError{Field: "ai_confidence", Reason: "must be within [0, 1]"}
	}
	return nil
}

func validateExit(x ExitData) error {
	if x.ExitPrice <= 0 {
		return &ValidationError{Field: "exit_price", Reason: "must be positive"}
	}
	if x.ExitReason == "" {
		return &ValidationError{Field: "exit_reason", Reason: "required"}
	}
	if x.HoldingMinutes < 0 {
		return &ValidationError{Field: "holding_minutes", Reason: "must not be negative"}
	}
	if x.ExitFee < 0 {
		return &ValidationError{Field: "exit_fee", Reason: "must not be negative"}
	}
	return nil
}

const emptyBlob = "{}"

// encodeBlob serializes an indicator snapshot for its TEXT column. A
// nil snapshot persists as "{}" so readers always see well-formed JSON.
func encodeBlob[T any](p *T) (string, error) {
	if p == nil {
		return emptyBlob, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeBlob is the inverse of encodeBlob: "{}" (or empty) decodes to
// nil, anything else to a populated snapshot.
func decodeBlob[T any](raw string) (*T, error) {
	if raw == "" || raw == emptyBlob {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

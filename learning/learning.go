// Package learning records one feature/outcome sample per closed
// trade for an external learning component. Samples are append-only:
// there is no update path, and the trade_id reference is a weak link
// used for lookup only.
package learning

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/tradeledger/ledger"
)

// Features is a JSON-serializable bag of named values. It decodes back
// to exactly what was written (strings, numbers, bools, nested maps
// and arrays).
type Features map[string]any

// Sample is one learning record tied to a trade.
type Sample struct {
	ID               int64
	TradeID          ledger.TradeID
	Created          time.Time
	EntryFeatures    Features
	ExitFeatures     Features
	MarketConditions Features
	Outcome          Features
	Patterns         Features
}

// Recorder appends and reads learning samples. It shares the ledger's
// database handle.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends a sample and returns its id. Created defaults to now
// when zero; nil feature maps persist as empty JSON objects.
func (r *Recorder) Record(s Sample) (int64, error) {
	created := s.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	cols := []Features{s.EntryFeatures, s.ExitFeatures, s.MarketConditions, s.Outcome, s.Patterns}
	encoded := make([]string, len(cols))
	for i, f := range cols {
		raw, err := encodeFeatures(f)
		if err != nil {
			return 0, fmt.Errorf("encode sample features: %w", err)
		}
		encoded[i] = raw
	}

	res, err := r.db.Exec(`
		INSERT INTO learning_data
		(trade_id, created, entry_features, exit_features, market_conditions, outcome, patterns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(s.TradeID), created, encoded[0], encoded[1], encoded[2], encoded[3], encoded[4],
	)
	if err != nil {
		return 0, fmt.Errorf("insert learning sample: %w", err)
	}
	return res.LastInsertId()
}

// ByTrade returns the samples recorded for one trade, oldest first.
func (r *Recorder) ByTrade(tradeID ledger.TradeID) ([]Sample, error) {
	rows, err := r.db.Query(`
		SELECT id, trade_id, created, entry_features, exit_features, market_conditions, outcome, patterns
		FROM learning_data
		WHERE trade_id = ?
		ORDER BY id ASC`, int64(tradeID))
	if err != nil {
		return nil, fmt.Errorf("query learning samples: %w", err)
	}
	return collectSamples(rows)
}

// List returns up to limit samples, newest first.
func (r *Recorder) List(limit int) ([]Sample, error) {
	rows, err := r.db.Query(`
		SELECT id, trade_id, created, entry_features, exit_features, market_conditions, outcome, patterns
		FROM learning_data
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query learning samples: %w", err)
	}
	return collectSamples(rows)
}

func collectSamples(rows *sql.Rows) ([]Sample, error) {
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var (
			s       Sample
			tradeID int64
			raw     [5]string
		)
		if err := rows.Scan(&s.ID, &tradeID, &s.Created, &raw[0], &raw[1], &raw[2], &raw[3], &raw[4]); err != nil {
			return nil, fmt.Errorf("scan learning sample: %w", err)
		}
		s.TradeID = ledger.TradeID(tradeID)

		dsts := []*Features{&s.EntryFeatures, &s.ExitFeatures, &s.MarketConditions, &s.Outcome, &s.Patterns}
		for i, dst := range dsts {
			f, err := decodeFeatures(raw[i])
			if err != nil {
				return nil, fmt.Errorf("decode sample features: %w", err)
			}
			*dst = f
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learning samples: %w", err)
	}
	return out, nil
}

func encodeFeatures(f Features) (string, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeFeatures(raw string) (Features, error) {
	f := Features{}
	if raw == "" {
		return f, nil
	}
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, err
	}
	return f, nil
}

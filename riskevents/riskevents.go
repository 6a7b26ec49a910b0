// Package riskevents is an append-only log of risk decisions and
// circuit-breaker triggers. Events stand alone; they carry no
// relation to trades.
package riskevents

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/tradeledger/pkg/id"
)

// Severity of a risk event.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Event is one risk log entry.
type Event struct {
	EventID  string // ULID, assigned on record when empty
	Time     time.Time
	Kind     string // e.g. "DAILY_LOSS_LIMIT", "POSITION_CAP"
	Symbol   string
	Severity Severity
	Detail   string
}

// Recorder appends and reads risk events. It shares the ledger's
// database handle.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends one event. A missing EventID gets a fresh ULID; a
// zero Time defaults to now.
func (r *Recorder) Record(ev Event) error {
	if ev.Kind == "" {
		return fmt.Errorf("risk event kind required")
	}
	if ev.Severity == "" {
		ev.Severity = SeverityInfo
	}
	if ev.EventID == "" {
		ev.EventID = id.New()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO risk_events
		(event_id, time, kind, symbol, severity, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.EventID, ev.Time, ev.Kind, ev.Symbol, string(ev.Severity), ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert risk event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. ULIDs sort by
// creation time, so event_id ordering is chronological.
func (r *Recorder) Recent(limit int) ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT event_id, time, kind, symbol, severity, detail
		FROM risk_events
		ORDER BY event_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query risk events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev       Event
			severity string
		)
		if err := rows.Scan(&ev.EventID, &ev.Time, &ev.Kind, &ev.Symbol, &severity, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan risk event: %w", err)
		}
		ev.Severity = Severity(severity)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk events: %w", err)
	}
	return out, nil
}

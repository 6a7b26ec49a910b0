package ledger

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func validEntry() EntryData {
	return EntryData{
		Timestamp:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Symbol:     "BTC/USDT",
		Mode:       ModePaper,
		EntryPrice: 64250.0,
		Quantity:   0.05,
	}
}

func validExit() ExitData {
	return ExitData{
		ExitPrice:      65000.0,
		PnlPercent:     0.0117,
		PnlKRW:         52000,
		ExitReason:     "TAKE_PROFIT",
		ExitTimestamp:  time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC),
		HoldingMinutes: 240,
		ExitFee:        0.64,
	}
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','learning_data','risk_events')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["learning_data"])
	assert.True(t, found["risk_events"])
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	require.NoError(t, s.Close())

	// Reopening the same file must not fail or clobber anything.
	s2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestRecordEntryAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	var prev TradeID
	for i := 0; i < 5; i++ {
		id, err := s.RecordEntry(validEntry())
		require.NoError(t, err)
		assert.Greater(t, id, prev, "ids must strictly increase")
		prev = id
	}
}

func TestRecordEntryDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	e := validEntry()
	e.Timestamp = time.Time{} // default to now

	before := time.Now().UTC()
	id, err := s.RecordEntry(e)
	require.NoError(t, err)

	got, err := s.GetTrade(id)
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, got.Status)
	assert.WithinDuration(t, before, got.Timestamp, 5*time.Second)
	assert.Zero(t, got.EntryFee)
	assert.Nil(t, got.MACDEntry, "unset blob reads back as nil")
	assert.Nil(t, got.BBEntry)
	assert.Nil(t, got.RSIEntry)
	assert.Nil(t, got.AIConfidence)

	// No exit fields while OPEN.
	assert.Nil(t, got.ExitPrice)
	assert.Nil(t, got.PnlPercent)
	assert.Nil(t, got.PnlKRW)
	assert.Nil(t, got.ExitReason)
	assert.Nil(t, got.ExitTimestamp)
	assert.Nil(t, got.HoldingMinutes)
	assert.Nil(t, got.ExitFee)
}

func TestRecordEntryValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	cases := []struct {
		name   string
		mutate func(*EntryData)
	}{
		{"zero entry price", func(e *EntryData) { e.EntryPrice = 0 }},
		{"negative entry price", func(e *EntryData) { e.EntryPrice = -1 }},
		{"zero quantity", func(e *EntryData) { e.Quantity = 0 }},
		{"negative quantity", func(e *EntryData) { e.Quantity = -0.5 }},
		{"missing symbol", func(e *EntryData) { e.Symbol = "" }},
		{"bad mode", func(e *EntryData) { e.Mode = "demo" }},
		{"negative fee", func(e *EntryData) { e.EntryFee = -0.1 }},
		{"confidence above one", func(e *EntryData) {
			c := 1.5
			e.AIConfidence = &c
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(&e)

			_, err := s.RecordEntry(e)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
		})
	}
}

func TestRecordExitClosesTrade(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	id, err := s.RecordEntry(validEntry())
	require.NoError(t, err)

	x := validExit()
	require.NoError(t, s.RecordExit(id, x))

	got, err := s.GetTrade(id)
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, got.Status)
	assert.True(t, got.Closed())
	require.NotNil(t, got.ExitPrice)
	assert.InDelta(t, x.ExitPrice, *got.ExitPrice, 1e-9)
	require.NotNil(t, got.PnlPercent)
	assert.InDelta(t, x.PnlPercent, *got.PnlPercent, 1e-12)
	require.NotNil(t, got.PnlKRW)
	assert.InDelta(t, x.PnlKRW, *got.PnlKRW, 1e-6)
	require.NotNil(t, got.ExitReason)
	assert.Equal(t, x.ExitReason, *got.ExitReason)
	require.NotNil(t, got.ExitTimestamp)
	assert.True(t, got.ExitTimestamp.Equal(x.ExitTimestamp))
	require.NotNil(t, got.HoldingMinutes)
	assert.Equal(t, x.HoldingMinutes, *got.HoldingMinutes)
	require.NotNil(t, got.ExitFee)
	assert.InDelta(t, x.ExitFee, *got.ExitFee, 1e-9)
}

func TestRecordExitUnknownID(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	err := s.RecordExit(9999, validExit())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordExitTwice(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	id, err := s.RecordEntry(validEntry())
	require.NoError(t, err)
	require.NoError(t, s.RecordExit(id, validExit()))

	err = s.RecordExit(id, validExit())
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	// The second attempt must not have disturbed the closed row.
	got, err := s.GetTrade(id)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)
}

func TestRecordExitValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	id, err := s.RecordEntry(validEntry())
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*ExitData)
	}{
		{"zero exit price", func(x *ExitData) { x.ExitPrice = 0 }},
		{"missing reason", func(x *ExitData) { x.ExitReason = "" }},
		{"negative holding minutes", func(x *ExitData) { x.HoldingMinutes = -1 }},
		{"negative exit fee", func(x *ExitData) { x.ExitFee = -0.1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := validExit()
			tc.mutate(&x)

			err := s.RecordExit(id, x)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
		})
	}

	// Trade must still be OPEN after all the rejected exits.
	got, err := s.GetTrade(id)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, got.Status)
}

func TestRecordEntryFullSnapshot(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	rsi := 28.4
	vol := 1.8
	conf := 0.75
	e := validEntry()
	e.RSIEntry = &rsi
	e.VolumeRatio = &vol
	e.AIConfidence = &conf
	e.AIReasoning = "oversold bounce with rising volume"
	e.EntryFee = 0.38
	e.MACDEntry = &MACDSnapshot{MACD: -0.0012, Signal: -0.0018, Histogram: 0.0006}
	e.BBEntry = &BollingerSnapshot{Upper: 0.401, Middle: 0.388, Lower: 0.375}

	id, err := s.RecordEntry(e)
	require.NoError(t, err)

	got, err := s.GetTrade(id)
	require.NoError(t, err)

	require.NotNil(t, got.RSIEntry)
	assert.InDelta(t, rsi, *got.RSIEntry, 1e-9)
	require.NotNil(t, got.VolumeRatio)
	assert.InDelta(t, vol, *got.VolumeRatio, 1e-9)
	require.NotNil(t, got.AIConfidence)
	assert.InDelta(t, conf, *got.AIConfidence, 1e-9)
	assert.Equal(t, e.AIReasoning, got.AIReasoning)
	assert.InDelta(t, e.EntryFee, got.EntryFee, 1e-9)

	require.NotNil(t, got.MACDEntry)
	assert.Equal(t, *e.MACDEntry, *got.MACDEntry)
	require.NotNil(t, got.BBEntry)
	assert.Equal(t, *e.BBEntry, *got.BBEntry)
}

// Package ledger owns the trade lifecycle: a trade is created OPEN by
// RecordEntry, closed exactly once by RecordExit, and immutable after
// that. All reads and the statistics engine work off this package's
// Trade value.
package ledger

import (
	"time"
)

// TradeID is the store-assigned numeric identity of a trade. IDs are
// monotonically increasing within a database and never reused.
type TradeID int64

// Status of a trade. OPEN transitions to CLOSED exactly once.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Mode distinguishes paper trades from live ones.
type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

// MACDSnapshot is the MACD indicator state captured at entry.
type MACDSnapshot struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerSnapshot is the Bollinger band state captured at entry.
type BollingerSnapshot struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// EntryData is the input to RecordEntry. Timestamp defaults to now
// when zero; EntryFee defaults to 0; nil indicator snapshots persist
// as an empty JSON object rather than SQL NULL.
type EntryData struct {
	Timestamp    time.Time
	Symbol       string
	Mode         Mode
	EntryPrice   float64
	Quantity     float64
	RSIEntry     *float64
	MACDEntry    *MACDSnapshot
	BBEntry      *BollingerSnapshot
	VolumeRatio  *float64
	AIConfidence *float64
	AIReasoning  string
	EntryFee     float64
}

// ExitData is the input to RecordExit. ExitTimestamp defaults to now
// when zero; ExitFee defaults to 0.
type ExitData struct {
	ExitPrice      float64
	PnlPercent     float64
	PnlKRW         float64
	ExitReason     string
	ExitTimestamp  time.Time
	HoldingMinutes int64
	ExitFee        float64
}

// Trade is one tracked position. Exit fields are nil while the trade
// is OPEN and all populated once it is CLOSED; there is no partial
// close.
type Trade struct {
	ID           TradeID
	Timestamp    time.Time
	Symbol       string
	Mode         Mode
	EntryPrice   float64
	Quantity     float64
	RSIEntry     *float64
	MACDEntry    *MACDSnapshot
	BBEntry      *BollingerSnapshot
	VolumeRatio  *float64
	AIConfidence *float64
	AIReasoning  string
	EntryFee     float64

	Status         Status
	ExitPrice      *float64
	PnlPercent     *float64
	PnlKRW         *float64
	ExitReason     *string
	ExitTimestamp  *time.Time
	HoldingMinutes *int64
	ExitFee        *float64
}

// Closed reports whether the trade has been exited.
func (t Trade) Closed() bool {
	return t.Status == StatusClosed
}

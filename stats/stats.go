// Package stats computes aggregate performance metrics over the
// ledger's closed trades. It only reads; it never mutates the store.
package stats

import (
	"math"
	"time"

	"github.com/rustyeddy/tradeledger/ledger"
)

// DateRange is an inclusive, date-granularity query window. Hours and
// smaller components of From/To are ignored.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TradeRef identifies the best or worst trade of a period. PnlPercent
// is in percent points (a stored 0.0194 reports as 1.94).
type TradeRef struct {
	Symbol     string
	PnlPercent float64
}

// Statistics is a read-only aggregate over a set of closed trades.
// Zero trades yields the zero value with Best and Worst nil; an empty
// period is an answer, not an error.
type Statistics struct {
	TotalTrades int
	Winners     int
	Losers      int
	WinRate     float64 // percent, 1 decimal
	AvgProfit   float64 // percent points, 2 decimals; 0 when no winners
	AvgLoss     float64 // percent points, 2 decimals; 0 when no losers
	TotalPnlKRW float64 // rounded to the nearest whole KRW
	Best        *TradeRef
	Worst       *TradeRef
}

// Engine computes Statistics from a ledger store.
type Engine struct {
	store *ledger.Store
}

func NewEngine(store *ledger.Store) *Engine {
	return &Engine{store: store}
}

// Compute aggregates closed trades. A nil rng means all closed trades
// ever recorded; otherwise both dates are inclusive at day
// granularity. A trade with pnl_percent of exactly zero counts as a
// loss. Best/Worst ties go to the most recently entered trade, because
// the underlying query orders by entry timestamp descending.
func (e *Engine) Compute(rng *DateRange) (Statistics, error) {
	var start, end time.Time
	if rng != nil {
		if !rng.From.IsZero() {
			start = dayStart(rng.From)
		}
		if !rng.To.IsZero() {
			end = dayStart(rng.To).Add(24 * time.Hour)
		}
	}

	trades, err := e.store.ClosedTradesBetween(start, end)
	if err != nil {
		return Statistics{}, err
	}
	return Aggregate(trades), nil
}

// Aggregate computes Statistics over an already-fetched trade set.
// Trades without a recorded pnl are skipped; a correctly closed trade
// always has one.
func Aggregate(trades []ledger.Trade) Statistics {
	var st Statistics

	var sumProfit, sumLoss, sumKRW float64
	var bestPnl, worstPnl float64
	for _, t := range trades {
		if t.PnlPercent == nil {
			continue
		}
		pnl := *t.PnlPercent

		st.TotalTrades++
		if pnl > 0 {
			st.Winners++
			sumProfit += pnl
		} else {
			st.Losers++
			sumLoss += pnl
		}
		if t.PnlKRW != nil {
			sumKRW += *t.PnlKRW
		}

		// Strict comparison keeps the first-encountered trade on ties.
		if st.Best == nil || pnl > bestPnl {
			bestPnl = pnl
			st.Best = &TradeRef{Symbol: t.Symbol, PnlPercent: pnl * 100}
		}
		if st.Worst == nil || pnl < worstPnl {
			worstPnl = pnl
			st.Worst = &TradeRef{Symbol: t.Symbol, PnlPercent: pnl * 100}
		}
	}

	if st.TotalTrades == 0 {
		return st
	}

	st.WinRate = round(float64(st.Winners)/float64(st.TotalTrades)*100, 1)
	if st.Winners > 0 {
		st.AvgProfit = round(sumProfit/float64(st.Winners)*100, 2)
	}
	if st.Losers > 0 {
		st.AvgLoss = round(sumLoss/float64(st.Losers)*100, 2)
	}
	st.TotalPnlKRW = math.Round(sumKRW)

	return st
}

func round(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

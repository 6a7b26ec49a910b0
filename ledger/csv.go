package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "timestamp", "symbol", "mode", "entry_price", "quantity",
	"entry_fee", "status", "exit_price", "pnl_percent", "pnl_krw",
	"exit_reason", "exit_timestamp", "holding_minutes", "exit_fee",
}

// ExportCSV writes trades to w as CSV with a header row. Exit columns
// are blank for trades that are still OPEN.
func ExportCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		rec := []string{
			strconv.FormatInt(int64(t.ID), 10),
			t.Timestamp.UTC().Format(time.RFC3339),
			t.Symbol,
			string(t.Mode),
			f(t.EntryPrice),
			f(t.Quantity),
			f(t.EntryFee),
			string(t.Status),
			optFloat(t.ExitPrice),
			optFloat(t.PnlPercent),
			optFloat(t.PnlKRW),
			optString(t.ExitReason),
			optTime(t.ExitTimestamp),
			optInt(t.HoldingMinutes),
			optFloat(t.ExitFee),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return f(*p)
}

func optString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optTime(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.UTC().Format(time.RFC3339)
}

func optInt(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

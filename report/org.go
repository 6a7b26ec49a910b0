// Package report renders trades and period statistics as Org-mode
// text for the CLI and for pasting into a trading journal.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradeledger/ledger"
	"github.com/rustyeddy/tradeledger/stats"
)

// FormatTradeOrg renders one trade as an Org block: structured facts
// in a PROPERTIES drawer, narrative placeholders below.
func FormatTradeOrg(t ledger.Trade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "** Trade: %s #%d [%s]\n", t.Symbol, t.ID, t.Status)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %d\n", t.ID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":MODE: %s\n", t.Mode)
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.8g\n", t.EntryPrice)
	fmt.Fprintf(&b, ":QUANTITY: %.8g\n", t.Quantity)
	fmt.Fprintf(&b, ":ENTRY_FEE: %.8g\n", t.EntryFee)
	if t.AIConfidence != nil {
		fmt.Fprintf(&b, ":AI_CONFIDENCE: %.2f\n", *t.AIConfidence)
	}
	if t.Closed() {
		fmt.Fprintf(&b, ":EXIT_TIME: %s\n", t.ExitTimestamp.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, ":EXIT_PRICE: %.8g\n", *t.ExitPrice)
		fmt.Fprintf(&b, ":PNL_PCT: %.2f\n", *t.PnlPercent*100)
		fmt.Fprintf(&b, ":PNL_KRW: %.0f\n", *t.PnlKRW)
		fmt.Fprintf(&b, ":EXIT_REASON: %s\n", *t.ExitReason)
		fmt.Fprintf(&b, ":HELD_MIN: %d\n", *t.HoldingMinutes)
	}
	b.WriteString(":END:\n")
	if t.AIReasoning != "" {
		b.WriteString("\n*** Reasoning\n")
		fmt.Fprintf(&b, "- %s\n", t.AIReasoning)
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []ledger.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

var statsOrgFuncs = template.FuncMap{
	"orNow": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

const statsOrgTemplate = `* PERFORMANCE: {{.Period}}
:PROPERTIES:
:TRADES:      {{.Stats.TotalTrades}}
:WINS:        {{.Stats.Winners}}
:LOSSES:      {{.Stats.Losers}}
:WIN_RATE:    {{printf "%.1f" .Stats.WinRate}}
:AVG_PROFIT:  {{printf "%.2f" .Stats.AvgProfit}}
:AVG_LOSS:    {{printf "%.2f" .Stats.AvgLoss}}
:TOTAL_KRW:   {{printf "%.0f" .Stats.TotalPnlKRW}}
:CREATED:     [{{(orNow .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Summary
- Win Rate:    *{{printf "%.1f" .Stats.WinRate}}%*
- Avg Profit:  *{{printf "%.2f" .Stats.AvgProfit}}%*
- Avg Loss:    *{{printf "%.2f" .Stats.AvgLoss}}%*
- Total P/L:   *{{printf "%.0f" .Stats.TotalPnlKRW}} KRW*
{{- if .Stats.Best}}
- Best Trade:  {{.Stats.Best.Symbol}} ({{printf "%+.2f" .Stats.Best.PnlPercent}}%)
{{- end}}
{{- if .Stats.Worst}}
- Worst Trade: {{.Stats.Worst.Symbol}} ({{printf "%+.2f" .Stats.Worst.PnlPercent}}%)
{{- end}}

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Stats.Winners}} |
| Losses  | {{.Stats.Losers}} |
| Total   | {{.Stats.TotalTrades}} |
`

type statsOrgData struct {
	Period  string
	Stats   stats.Statistics
	Created time.Time
}

// FormatStatsOrg renders period statistics as an Org block. period is
// a human label such as "all time" or "2026-08-01..2026-08-23".
func FormatStatsOrg(period string, st stats.Statistics) (string, error) {
	t, err := template.New("stats").Funcs(statsOrgFuncs).Parse(statsOrgTemplate)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, statsOrgData{Period: period, Stats: st}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeledger/ledger"
	"github.com/rustyeddy/tradeledger/stats"
)

func closedTrade() ledger.Trade {
	exitPrice := 0.3895
	pnlPct := 0.0194
	pnlKRW := 9700.0
	reason := "TRAILING_STOP"
	exitTS := time.Date(2026, 8, 20, 11, 15, 0, 0, time.UTC)
	held := int64(135)
	exitFee := 0.39
	conf := 0.75

	return ledger.Trade{
		ID:             7,
		Timestamp:      time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		Symbol:         "DOGE/USDT",
		Mode:           ledger.ModePaper,
		EntryPrice:     0.3821,
		Quantity:       1006.0,
		AIConfidence:   &conf,
		AIReasoning:    "momentum breakout on rising volume",
		EntryFee:       0.38,
		Status:         ledger.StatusClosed,
		ExitPrice:      &exitPrice,
		PnlPercent:     &pnlPct,
		PnlKRW:         &pnlKRW,
		ExitReason:     &reason,
		ExitTimestamp:  &exitTS,
		HoldingMinutes: &held,
		ExitFee:        &exitFee,
	}
}

func TestFormatTradeOrgClosed(t *testing.T) {
	t.Parallel()

	out := FormatTradeOrg(closedTrade())

	assert.Contains(t, out, "** Trade: DOGE/USDT #7 [CLOSED]")
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":TRADE_ID: 7")
	assert.Contains(t, out, ":MODE: paper")
	assert.Contains(t, out, ":ENTRY_TIME: 2026-08-20T09:00:00Z")
	assert.Contains(t, out, ":AI_CONFIDENCE: 0.75")
	assert.Contains(t, out, ":EXIT_TIME: 2026-08-20T11:15:00Z")
	assert.Contains(t, out, ":PNL_PCT: 1.94")
	assert.Contains(t, out, ":PNL_KRW: 9700")
	assert.Contains(t, out, ":EXIT_REASON: TRAILING_STOP")
	assert.Contains(t, out, ":HELD_MIN: 135")
	assert.Contains(t, out, ":END:")
	assert.Contains(t, out, "*** Reasoning")
	assert.Contains(t, out, "momentum breakout")
}

func TestFormatTradeOrgOpenOmitsExitFields(t *testing.T) {
	t.Parallel()

	tr := ledger.Trade{
		ID:         3,
		Timestamp:  time.Date(2026, 8, 21, 8, 0, 0, 0, time.UTC),
		Symbol:     "ETH/USDT",
		Mode:       ledger.ModeLive,
		EntryPrice: 2600,
		Quantity:   0.5,
		Status:     ledger.StatusOpen,
	}

	out := FormatTradeOrg(tr)

	assert.Contains(t, out, "** Trade: ETH/USDT #3 [OPEN]")
	assert.NotContains(t, out, ":EXIT_TIME:")
	assert.NotContains(t, out, ":PNL_PCT:")
	assert.NotContains(t, out, ":AI_CONFIDENCE:")
	assert.NotContains(t, out, "*** Reasoning")
}

func TestFormatTradesOrgSeparatesBlocks(t *testing.T) {
	t.Parallel()

	out := FormatTradesOrg([]ledger.Trade{closedTrade(), closedTrade()})
	assert.Contains(t, out, "\n\n** Trade:")
}

func TestFormatStatsOrg(t *testing.T) {
	t.Parallel()

	st := stats.Statistics{
		TotalTrades: 3,
		Winners:     2,
		Losers:      1,
		WinRate:     66.7,
		AvgProfit:   2.5,
		AvgLoss:     -1.25,
		TotalPnlKRW: 15300,
		Best:        &stats.TradeRef{Symbol: "DOGE/USDT", PnlPercent: 3.06},
		Worst:       &stats.TradeRef{Symbol: "BTC/USDT", PnlPercent: -1.25},
	}

	out, err := FormatStatsOrg("all time", st)
	require.NoError(t, err)

	assert.Contains(t, out, "* PERFORMANCE: all time")
	assert.Contains(t, out, ":WIN_RATE:    66.7")
	assert.Contains(t, out, ":AVG_PROFIT:  2.50")
	assert.Contains(t, out, ":TOTAL_KRW:   15300")
	assert.Contains(t, out, "Best Trade:  DOGE/USDT (+3.06%)")
	assert.Contains(t, out, "Worst Trade: BTC/USDT (-1.25%)")
	assert.Contains(t, out, "| Total   | 3 |")
}

func TestFormatStatsOrgEmptyPeriod(t *testing.T) {
	t.Parallel()

	out, err := FormatStatsOrg("2026-08-01..2026-08-23", stats.Statistics{})
	require.NoError(t, err)

	assert.Contains(t, out, ":TRADES:      0")
	assert.NotContains(t, out, "Best Trade")
	assert.NotContains(t, out, "Worst Trade")
}

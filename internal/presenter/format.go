package presenter

import (
	"math"
	"strconv"
	"time"

	"trading-statistics/internal/dto"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// FormatSignedPercent renders a percentage with two decimals. Only values
// above 1 get an explicit "+"; values in (0, 1] are printed unsigned.
func FormatSignedPercent(v float64) string {
	if math.IsNaN(v) {
		return "0.00"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 1 {
		return "+" + s
	}
	return s
}

// FormatPercent renders a percentage with two decimals and no sign rule.
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "0.00"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatNumber prints the shortest representation of v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPnL appends the stop-out compensation when there is one.
func FormatPnL(r dto.DailyRecord) string {
	s := FormatNumber(r.DailyPnL)
	if r.SOCompensation > 0 {
		s += " + " + FormatNumber(r.SOCompensation)
	}
	return s
}

// FormatBalance renders "balance (signed%)".
func FormatBalance(r dto.EnrichedRecord) string {
	return FormatNumber(r.Balance) + " (" + FormatSignedPercent(r.BalanceChangePercent) + "%)"
}

// FormatDateTime renders the record timestamp in loc, or the raw string when
// it cannot be parsed.
func FormatDateTime(r dto.DailyRecord, loc *time.Location) string {
	t, err := r.Time()
	if err != nil {
		return r.DateTime
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateTimeLayout)
}

package service

import (
	"trading-statistics/internal/dto"

	"github.com/shopspring/decimal"
)

// WinRatio is the share of closed positions that were winners, in percent.
// A day without closed positions has a ratio of 0.
func WinRatio(r dto.DailyRecord) float64 {
	total := r.WinningPositions + r.LosingPositions
	if total == 0 {
		return 0
	}
	return r.WinningPositions / total * 100
}

// BalanceChangePercent is the change from PrevBalance to Balance, in percent.
// It is 0 when PrevBalance is exactly 0 and is never clamped.
func BalanceChangePercent(r dto.DailyRecord) float64 {
	if r.PrevBalance == 0 {
		return 0
	}
	return (r.Balance - r.PrevBalance) / r.PrevBalance * 100
}

// Derive enriches every record, keeping length and order. It only reads the
// raw counters, so deriving the raw part of its own output gives the same result.
func Derive(records []dto.DailyRecord) []dto.EnrichedRecord {
	enriched := make([]dto.EnrichedRecord, len(records))
	for i, r := range records {
		enriched[i] = dto.EnrichedRecord{
			DailyRecord:          r,
			WinRatio:             WinRatio(r),
			BalanceChangePercent: BalanceChangePercent(r),
		}
	}
	return enriched
}

// Summarize totals a fetched period. Money sums go through decimal so a long
// range of cents does not drift.
func Summarize(records []dto.EnrichedRecord) dto.StatisticsSummary {
	summary := dto.StatisticsSummary{TotalPoints: len(records)}
	if len(records) == 0 {
		return summary
	}

	var pnl, swap, commission, soCompensation, withdraw, deposit decimal.Decimal
	var winning, losing float64
	for _, r := range records {
		pnl = pnl.Add(decimal.NewFromFloat(r.DailyPnL))
		swap = swap.Add(decimal.NewFromFloat(r.Swap))
		commission = commission.Add(decimal.NewFromFloat(r.Commission))
		soCompensation = soCompensation.Add(decimal.NewFromFloat(r.SOCompensation))
		withdraw = withdraw.Add(decimal.NewFromFloat(r.Withdraw))
		deposit = deposit.Add(decimal.NewFromFloat(r.Deposit))
		winning += r.WinningPositions
		losing += r.LosingPositions
	}

	first, last := records[0], records[len(records)-1]

	summary.TotalPnL = pnl.InexactFloat64()
	summary.TotalSwap = swap.InexactFloat64()
	summary.TotalCommission = commission.InexactFloat64()
	summary.TotalSOCompensation = soCompensation.InexactFloat64()
	summary.TotalWithdraw = withdraw.InexactFloat64()
	summary.TotalDeposit = deposit.InexactFloat64()
	summary.NetResult = pnl.Add(swap).Add(commission).Add(soCompensation).InexactFloat64()
	summary.WinningPositions = winning
	summary.LosingPositions = losing
	summary.WinRatio = WinRatio(dto.DailyRecord{WinningPositions: winning, LosingPositions: losing})
	summary.StartBalance = first.PrevBalance
	summary.EndBalance = last.Balance
	summary.BalanceChangePercent = BalanceChangePercent(dto.DailyRecord{PrevBalance: first.PrevBalance, Balance: last.Balance})

	return summary
}

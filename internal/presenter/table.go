package presenter

import (
	"time"

	"trading-statistics/internal/dto"
)

var TableHeaders = []string{
	"Date",
	"Daily PnL",
	"Swap",
	"Commission",
	"PrevBalance",
	"Balance",
	"Withdraw/Deposit",
	"Win",
	"Lose",
	"Win %",
}

// TableRow is one record with every cell already formatted.
type TableRow struct {
	Date            string
	DailyPnL        string
	Swap            string
	Commission      string
	PrevBalance     string
	Balance         string
	WithdrawDeposit string
	Win             string
	Lose            string
	WinPercent      string
}

func (r TableRow) Cells() []string {
	return []string{
		r.Date,
		r.DailyPnL,
		r.Swap,
		r.Commission,
		r.PrevBalance,
		r.Balance,
		r.WithdrawDeposit,
		r.Win,
		r.Lose,
		r.WinPercent,
	}
}

func BuildTable(records []dto.EnrichedRecord, loc *time.Location) []TableRow {
	rows := make([]TableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, TableRow{
			Date:            FormatDateTime(r.DailyRecord, loc),
			DailyPnL:        FormatPnL(r.DailyRecord),
			Swap:            FormatNumber(r.Swap),
			Commission:      FormatNumber(r.Commission),
			PrevBalance:     FormatNumber(r.PrevBalance),
			Balance:         FormatBalance(r),
			WithdrawDeposit: FormatNumber(r.Withdraw) + "/" + FormatNumber(r.Deposit),
			Win:             FormatNumber(r.WinningPositions),
			Lose:            FormatNumber(r.LosingPositions),
			WinPercent:      FormatPercent(r.WinRatio) + "%",
		})
	}
	return rows
}

// SummaryItem is one labelled line of the period summary.
type SummaryItem struct {
	Label string
	Value string
}

func BuildSummary(s dto.StatisticsSummary) []SummaryItem {
	return []SummaryItem{
		{Label: "Total Points", Value: FormatNumber(float64(s.TotalPoints))},
		{Label: "Total PnL", Value: FormatNumber(s.TotalPnL)},
		{Label: "Total Swap", Value: FormatNumber(s.TotalSwap)},
		{Label: "Total Commission", Value: FormatNumber(s.TotalCommission)},
		{Label: "SO Compensation", Value: FormatNumber(s.TotalSOCompensation)},
		{Label: "Net Result", Value: FormatNumber(s.NetResult)},
		{Label: "Withdraw/Deposit", Value: FormatNumber(s.TotalWithdraw) + "/" + FormatNumber(s.TotalDeposit)},
		{Label: "Win/Lose", Value: FormatNumber(s.WinningPositions) + "/" + FormatNumber(s.LosingPositions)},
		{Label: "Win %", Value: FormatPercent(s.WinRatio) + "%"},
		{Label: "Balance", Value: FormatNumber(s.StartBalance) + " -> " + FormatNumber(s.EndBalance) + " (" + FormatSignedPercent(s.BalanceChangePercent) + "%)"},
	}
}

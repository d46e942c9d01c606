package dto

import (
	"fmt"
	"strconv"
	"time"
)

// Supported time ranges, in days.
const (
	TimeRange3Days   = 3
	TimeRange7Days   = 7
	TimeRange30Days  = 30
	TimeRange90Days  = 90
	TimeRange180Days = 180
	TimeRange365Days = 365

	DefaultTimeRange = TimeRange30Days
)

// Query parameter names shared by the dashboard URL and the JSON API.
const (
	QueryAccountID = "accountId"
	QueryTimeRange = "timeRange"
)

func GetTimeRangeList() []int {
	return []int{
		TimeRange3Days,
		TimeRange7Days,
		TimeRange30Days,
		TimeRange90Days,
		TimeRange180Days,
		TimeRange365Days,
	}
}

func IsValidTimeRange(days int) bool {
	for _, d := range GetTimeRangeList() {
		if d == days {
			return true
		}
	}
	return false
}

// DailyRecord is one raw statistics entry for one account on one day.
type DailyRecord struct {
	DateTime         string  `json:"dateTime"`
	SOCompensation   float64 `json:"soCompensation"`
	DailyPnL         float64 `json:"dailyPnL"`
	Swap             float64 `json:"swap"`
	Commission       float64 `json:"commission"`
	Balance          float64 `json:"balance"`
	PrevBalance      float64 `json:"prevBalance"`
	Withdraw         float64 `json:"withdraw"`
	Deposit          float64 `json:"deposit"`
	WinningPositions float64 `json:"winningPositions"`
	LosingPositions  float64 `json:"losingPositions"`
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses DateTime. Timestamps without a zone are read as UTC.
func (r DailyRecord) Time() (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, r.DateTime); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized dateTime %q", r.DateTime)
}

// EnrichedRecord is a DailyRecord plus its derived percentages.
type EnrichedRecord struct {
	DailyRecord
	WinRatio             float64 `json:"winRatio"`
	BalanceChangePercent float64 `json:"balanceChangePercent"`
}

// StatisticsResponse mirrors the upstream GetStatistics body. Data is a pointer
// so an absent object can be told apart from an empty one.
type StatisticsResponse struct {
	Data *StatisticsData `json:"data"`
}

type StatisticsData struct {
	Points []DailyRecord `json:"points"`
}

// GetPoints returns the points, or an empty slice when data or points is absent.
func (r *StatisticsResponse) GetPoints() []DailyRecord {
	if r == nil || r.Data == nil || r.Data.Points == nil {
		return []DailyRecord{}
	}
	return r.Data.Points
}

// QueryParameters are the bookmarkable inputs of a statistics fetch.
type QueryParameters struct {
	AccountID string `json:"accountId" query:"accountId" form:"accountId" validate:"required"`
	TimeRange int    `json:"timeRange" query:"timeRange" form:"timeRange" validate:"oneof=3 7 30 90 180 365"`
}

// ParseQueryParameters reads accountId/timeRange as found in a URL. An empty
// timeRange falls back to defaultRange.
func ParseQueryParameters(accountID, timeRange string, defaultRange int) (QueryParameters, error) {
	params := QueryParameters{AccountID: accountID, TimeRange: defaultRange}
	if timeRange == "" {
		return params, nil
	}
	days, err := strconv.Atoi(timeRange)
	if err != nil {
		return params, fmt.Errorf("invalid timeRange %q: %w", timeRange, err)
	}
	params.TimeRange = days
	return params, nil
}

// Values renders the parameters as URL query values.
func (p QueryParameters) Values() map[string]string {
	return map[string]string{
		QueryAccountID: p.AccountID,
		QueryTimeRange: strconv.Itoa(p.TimeRange),
	}
}

// StatisticsSummary aggregates a fetched period.
type StatisticsSummary struct {
	TotalPoints          int     `json:"totalPoints"`
	TotalPnL             float64 `json:"totalPnL"`
	TotalSwap            float64 `json:"totalSwap"`
	TotalCommission      float64 `json:"totalCommission"`
	TotalSOCompensation  float64 `json:"totalSoCompensation"`
	TotalWithdraw        float64 `json:"totalWithdraw"`
	TotalDeposit         float64 `json:"totalDeposit"`
	NetResult            float64 `json:"netResult"`
	WinningPositions     float64 `json:"winningPositions"`
	LosingPositions      float64 `json:"losingPositions"`
	WinRatio             float64 `json:"winRatio"`
	StartBalance         float64 `json:"startBalance"`
	EndBalance           float64 `json:"endBalance"`
	BalanceChangePercent float64 `json:"balanceChangePercent"`
}

// StatisticsResult is what the JSON API returns for one fetch.
type StatisticsResult struct {
	Params  QueryParameters   `json:"params"`
	Status  string            `json:"status"`
	Points  []EnrichedRecord  `json:"points"`
	Summary StatisticsSummary `json:"summary"`
}

// SessionSnapshot is the JSON view of a dashboard session.
type SessionSnapshot struct {
	Params    QueryParameters   `json:"params"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	RequestID uint64            `json:"requestId"`
	Points    []EnrichedRecord  `json:"points"`
	Summary   StatisticsSummary `json:"summary"`
}

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"trading-statistics/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *dto.StatisticsResult {
	return &dto.StatisticsResult{
		Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30},
		Status: "ready",
		Points: []dto.EnrichedRecord{{
			DailyRecord:          dto.DailyRecord{DateTime: "2024-01-01T00:00:00Z", DailyPnL: 10, Balance: 1100, PrevBalance: 1000, WinningPositions: 3, LosingPositions: 1},
			WinRatio:             75,
			BalanceChangePercent: 10,
		}},
		Summary: dto.StatisticsSummary{TotalPoints: 1, TotalPnL: 10, WinRatio: 75},
	}
}

func TestPrintResult_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult(), time.UTC, false))

	out := buf.String()
	assert.Contains(t, out, "1100 (+10.00%)")
	assert.Contains(t, out, "Account ID: A1 | Time Range: 30 days | Total Points: 1")
}

func TestPrintResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult(), time.UTC, true))

	var decoded dto.StatisticsResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleResult(), &decoded)
}

func TestPrintResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	result := &dto.StatisticsResult{Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30}, Points: []dto.EnrichedRecord{}}
	require.NoError(t, printResult(&buf, result, time.UTC, false))
	assert.Equal(t, "No data available.\n", buf.String())
}

package presenter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"trading-statistics/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDashboard(t *testing.T, view DashboardView) string {
	t.Helper()
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, DashboardTemplate, view, nil))
	return buf.String()
}

func TestBuildDashboard_Ready(t *testing.T) {
	records := sampleEnriched()
	view := BuildDashboard(DashboardInput{
		Params:    dto.QueryParameters{AccountID: "A1", TimeRange: 7},
		Status:    "ready",
		Records:   records,
		RequestID: 3,
	}, dto.StatisticsSummary{TotalPoints: 2}, time.UTC)

	assert.Equal(t, "A1", view.AccountID)
	assert.Equal(t, 2, view.TotalPoints)
	assert.False(t, view.Loading)
	assert.Len(t, view.Rows, 2)
	assert.NotEmpty(t, view.Summary)
	require.Len(t, view.TimeRanges, 6)
	for _, opt := range view.TimeRanges {
		assert.Equal(t, opt.Days == 7, opt.Selected)
	}

	html := renderDashboard(t, view)
	assert.Contains(t, html, "Account ID: A1 | Time Range: 7 days | Total Points: 2")
	assert.Contains(t, html, `<option value="7" selected>7 days</option>`)
	assert.Contains(t, html, "/charts/balance.png?v=3")
	assert.Contains(t, html, "1100 (+10.00%)")
	assert.Contains(t, html, "10 + 1.5")
	assert.NotContains(t, html, "No data available.")
}

func TestBuildDashboard_States(t *testing.T) {
	tests := []struct {
		name     string
		input    DashboardInput
		contains string
		absent   string
	}{
		{
			name:     "idle",
			input:    DashboardInput{Params: dto.QueryParameters{TimeRange: 30}, Status: "idle"},
			contains: "No data available.",
			absent:   "<img",
		},
		{
			name:     "loading",
			input:    DashboardInput{Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30}, Status: "loading"},
			contains: "Loading data...",
			absent:   "<img",
		},
		{
			name:     "error",
			input:    DashboardInput{Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30}, Status: "error", Err: errors.New("upstream down")},
			contains: "Failed to load statistics: upstream down",
			absent:   "<img",
		},
		{
			name:     "ready but empty",
			input:    DashboardInput{Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30}, Status: "ready", Records: []dto.EnrichedRecord{}},
			contains: "No data available.",
			absent:   "<table>",
		},
		{
			name:     "validation error",
			input:    DashboardInput{Params: dto.QueryParameters{AccountID: "A1", TimeRange: 30}, Status: "idle", ValidationError: "invalid time range"},
			contains: "invalid time range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderDashboard(t, BuildDashboard(tt.input, dto.StatisticsSummary{}, time.UTC))
			assert.Contains(t, html, tt.contains)
			if tt.absent != "" {
				assert.NotContains(t, html, tt.absent)
			}
		})
	}
}

func TestDashboard_EscapesAccountID(t *testing.T) {
	view := BuildDashboard(DashboardInput{Params: dto.QueryParameters{AccountID: `<script>x</script>`, TimeRange: 30}}, dto.StatisticsSummary{}, time.UTC)
	html := renderDashboard(t, view)
	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

package presenter

import (
	"fmt"
	"io"
	"time"

	"trading-statistics/internal/dto"

	"github.com/olekukonko/tablewriter"
)

// WriteTable prints the record table for terminal output.
func WriteTable(w io.Writer, records []dto.EnrichedRecord, loc *time.Location) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(TableHeaders)...)
	for _, row := range BuildTable(records, loc) {
		if err := table.Append(toAny(row.Cells())...); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteSummary prints the period summary as a two-column table.
func WriteSummary(w io.Writer, params dto.QueryParameters, summary dto.StatisticsSummary) error {
	fmt.Fprintf(w, "\nAccount ID: %s | Time Range: %d days | Total Points: %d\n",
		params.AccountID, params.TimeRange, summary.TotalPoints)

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	for _, item := range BuildSummary(summary) {
		if err := table.Append(item.Label, item.Value); err != nil {
			return err
		}
	}
	return table.Render()
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

package presenter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"trading-statistics/internal/dto"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type ChartKind string

const (
	ChartBalance  ChartKind = "balance"
	ChartPnL      ChartKind = "pnl"
	ChartCashflow ChartKind = "cashflow"
)

func GetChartKinds() []ChartKind {
	return []ChartKind{ChartBalance, ChartPnL, ChartCashflow}
}

var (
	ErrNoData           = errors.New("no data to chart")
	ErrUnknownChartKind = errors.New("unknown chart kind")
)

var (
	colorBalance    = drawing.ColorFromHex("8884d8")
	colorPnL        = drawing.ColorFromHex("82ca9d")
	colorSwap       = drawing.ColorFromHex("8884d8")
	colorCommission = drawing.ColorFromHex("ffc658")
	colorWithdraw   = drawing.ColorFromHex("f87171")
	colorDeposit    = drawing.ColorFromHex("60a5fa")
)

// ChartRenderer draws the dashboard charts as PNG.
type ChartRenderer struct {
	width  int
	height int
	loc    *time.Location
}

func NewChartRenderer(width, height int, loc *time.Location) *ChartRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &ChartRenderer{width: width, height: height, loc: loc}
}

func (c *ChartRenderer) Render(kind ChartKind, records []dto.EnrichedRecord, w io.Writer) error {
	switch kind {
	case ChartBalance:
		return c.renderBalance(records, w)
	case ChartPnL:
		return c.renderPnL(records, w)
	case ChartCashflow:
		return c.renderCashflow(records, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChartKind, kind)
	}
}

type timedRecord struct {
	at time.Time
	dto.EnrichedRecord
}

// timed drops records whose timestamp cannot be parsed.
func timed(records []dto.EnrichedRecord) []timedRecord {
	out := make([]timedRecord, 0, len(records))
	for _, r := range records {
		t, err := r.Time()
		if err != nil {
			continue
		}
		out = append(out, timedRecord{at: t, EnrichedRecord: r})
	}
	return out
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// timeSeries builds a series, widening a single point to a one-day segment so
// the x range is never empty.
func timeSeries(name string, times []time.Time, ys []float64, col drawing.Color) chart.TimeSeries {
	if len(times) == 1 {
		times = []time.Time{times[0], times[0].Add(24 * time.Hour)}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{Name: name, XValues: times, YValues: ys, Style: pointStyle(col)}
}

// valueRange pads a degenerate range so the y axis always has a span.
func valueRange(values ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if hi == lo {
		pad := math.Max(math.Abs(hi)*0.05, 1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func (c *ChartRenderer) dateFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return time.Unix(0, int64(f)).In(c.loc).Format("2006-01-02")
	}
	return ""
}

func (c *ChartRenderer) timeChart(series []chart.Series, yRange *chart.ContinuousRange) chart.Chart {
	ch := chart.Chart{
		Width:      c.width,
		Height:     c.height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: c.dateFormatter},
		YAxis:      chart.YAxis{Range: yRange},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func (c *ChartRenderer) renderBalance(records []dto.EnrichedRecord, w io.Writer) error {
	points := timed(records)
	if len(points) == 0 {
		return ErrNoData
	}

	times := make([]time.Time, len(points))
	balances := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.at
		balances[i] = p.Balance
	}

	ch := c.timeChart([]chart.Series{timeSeries("Balance", times, balances, colorBalance)}, valueRange(balances))
	return ch.Render(chart.PNG, w)
}

// renderPnL draws PnL, swap and commission stacked on top of each other: each
// line is the running sum of the components below it.
func (c *ChartRenderer) renderPnL(records []dto.EnrichedRecord, w io.Writer) error {
	points := timed(records)
	if len(points) == 0 {
		return ErrNoData
	}

	times := make([]time.Time, len(points))
	pnl := make([]float64, len(points))
	withSwap := make([]float64, len(points))
	withCommission := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.at
		pnl[i] = p.DailyPnL
		withSwap[i] = pnl[i] + p.Swap
		withCommission[i] = withSwap[i] + p.Commission
	}

	series := []chart.Series{
		timeSeries("PnL", times, pnl, colorPnL),
		timeSeries("+ Swap", times, withSwap, colorSwap),
		timeSeries("+ Commission", times, withCommission, colorCommission),
	}
	ch := c.timeChart(series, valueRange(pnl, withSwap, withCommission, []float64{0}))
	return ch.Render(chart.PNG, w)
}

const (
	// room left of the bars for the y axis labels and padding
	cashflowAxisReserve = 120
	cashflowMinGroupPx  = 16
	cashflowLabelPx     = 40
	cashflowMaxBarPx    = 60
)

// cashflowGroup is the withdraw/deposit total of one or more consecutive days.
type cashflowGroup struct {
	at       time.Time
	withdraw float64
	deposit  float64
}

// groupCashflow sums consecutive records into equal-sized buckets so that at
// most maxGroups remain. Each bucket is dated by its first record.
func groupCashflow(points []timedRecord, maxGroups int) []cashflowGroup {
	if maxGroups < 1 {
		maxGroups = 1
	}
	size := (len(points) + maxGroups - 1) / maxGroups
	if size < 1 {
		size = 1
	}

	groups := make([]cashflowGroup, 0, (len(points)+size-1)/size)
	for i, p := range points {
		if i%size == 0 {
			groups = append(groups, cashflowGroup{at: p.at})
		}
		g := &groups[len(groups)-1]
		g.withdraw += p.Withdraw
		g.deposit += p.Deposit
	}
	return groups
}

type barLayout struct {
	barWidth   int
	spacing    int
	labelEvery int
}

// cashflowLayout splits plotWidth between 2*groups bars so the whole set fits.
func cashflowLayout(groups, plotWidth int) barLayout {
	perBar := plotWidth / (2 * groups)
	if perBar < 2 {
		perBar = 2
	}
	barWidth := perBar * 3 / 4
	if barWidth > cashflowMaxBarPx {
		barWidth = cashflowMaxBarPx
	}
	if barWidth < 1 {
		barWidth = 1
	}

	groupPx := 2 * perBar
	return barLayout{
		barWidth:   barWidth,
		spacing:    perBar - barWidth,
		labelEvery: (cashflowLabelPx + groupPx - 1) / groupPx,
	}
}

func (c *ChartRenderer) cashflowBars(groups []cashflowGroup, layout barLayout) []chart.Value {
	bars := make([]chart.Value, 0, len(groups)*2)
	for i, g := range groups {
		label := ""
		if i%layout.labelEvery == 0 {
			label = g.at.In(c.loc).Format("01-02")
		}
		bars = append(bars,
			chart.Value{Label: label, Value: g.withdraw, Style: chart.Style{FillColor: colorWithdraw, StrokeColor: colorWithdraw}},
			chart.Value{Value: g.deposit, Style: chart.Style{FillColor: colorDeposit, StrokeColor: colorDeposit}},
		)
	}
	return bars
}

// cashflowRange always includes zero, the base the bars grow from.
func cashflowRange(groups []cashflowGroup) *chart.ContinuousRange {
	values := make([]float64, 0, len(groups)*2+1)
	values = append(values, 0)
	for _, g := range groups {
		values = append(values, g.withdraw, g.deposit)
	}
	return valueRange(values)
}

func cashflowLegend() chart.Renderable {
	return chart.Legend(&chart.Chart{Series: []chart.Series{
		chart.ContinuousSeries{Name: "Withdraw", Style: chart.Style{StrokeColor: colorWithdraw, StrokeWidth: 4}},
		chart.ContinuousSeries{Name: "Deposit", Style: chart.Style{StrokeColor: colorDeposit, StrokeWidth: 4}},
	}})
}

// renderCashflow draws a withdraw and a deposit bar per day, or per bucket of
// days when the range has more days than the canvas can hold.
func (c *ChartRenderer) renderCashflow(records []dto.EnrichedRecord, w io.Writer) error {
	points := timed(records)
	if len(points) == 0 {
		return ErrNoData
	}

	plotWidth := c.width - cashflowAxisReserve
	if plotWidth < cashflowMinGroupPx {
		plotWidth = cashflowMinGroupPx
	}
	groups := groupCashflow(points, plotWidth/cashflowMinGroupPx)
	layout := cashflowLayout(len(groups), plotWidth)

	bc := chart.BarChart{
		Width:        c.width,
		Height:       c.height,
		BarWidth:     layout.barWidth,
		BarSpacing:   layout.spacing,
		UseBaseValue: true,
		BaseValue:    0,
		Background:   chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.Style{
			TextWrap:            chart.TextWrapNone,
			TextHorizontalAlign: chart.TextHorizontalAlignLeft,
		},
		YAxis:    chart.YAxis{Range: cashflowRange(groups)},
		Bars:     c.cashflowBars(groups, layout),
		Elements: []chart.Renderable{cashflowLegend()},
	}
	return bc.Render(chart.PNG, w)
}

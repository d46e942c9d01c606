package presenter

import (
	"embed"
	"html/template"
	"io"
	"time"

	"trading-statistics/internal/dto"

	"github.com/labstack/echo/v4"
)

const DashboardTemplate = "dashboard.html"

//go:embed templates/*.html
var templateFS embed.FS

type TimeRangeOption struct {
	Days     int
	Selected bool
}

// DashboardView is everything the dashboard page shows.
type DashboardView struct {
	AccountID       string
	TimeRange       int
	TimeRanges      []TimeRangeOption
	TotalPoints     int
	Loading         bool
	Error           string
	ValidationError string
	RequestID       uint64
	Headers         []string
	Rows            []TableRow
	Summary         []SummaryItem
}

// DashboardInput is the session state the page is built from.
type DashboardInput struct {
	Params          dto.QueryParameters
	Status          string
	Records         []dto.EnrichedRecord
	Err             error
	ValidationError string
	RequestID       uint64
}

func BuildDashboard(in DashboardInput, summary dto.StatisticsSummary, loc *time.Location) DashboardView {
	options := make([]TimeRangeOption, 0, len(dto.GetTimeRangeList()))
	for _, days := range dto.GetTimeRangeList() {
		options = append(options, TimeRangeOption{Days: days, Selected: days == in.Params.TimeRange})
	}

	view := DashboardView{
		AccountID:       in.Params.AccountID,
		TimeRange:       in.Params.TimeRange,
		TimeRanges:      options,
		TotalPoints:     len(in.Records),
		Loading:         in.Status == "loading",
		ValidationError: in.ValidationError,
		RequestID:       in.RequestID,
		Headers:         TableHeaders,
	}
	if in.Err != nil {
		view.Error = in.Err.Error()
	}
	if len(in.Records) > 0 {
		view.Rows = BuildTable(in.Records, loc)
		view.Summary = BuildSummary(summary)
	}
	return view
}

// TemplateRenderer plugs the embedded templates into echo.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

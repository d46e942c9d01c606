package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"trading-statistics/internal/dto"
	"trading-statistics/internal/presenter"
	"trading-statistics/internal/service"
	"trading-statistics/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupDashboard(e *echo.Echo) {
	e.GET("/", h.showDashboard)
	e.POST("/", h.submitDashboard)
	e.GET("/charts/:name", h.renderChart)
}

// showDashboard treats the URL query as the parameter store: a changed
// accountId/timeRange pair drives the visitor's session. Visitors without a
// session only get one once the URL names an account.
func (h *HttpAPIHandler) showDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	session, _ := h.existingSession(c)

	params, err := dto.ParseQueryParameters(c.QueryParam(dto.QueryAccountID), c.QueryParam(dto.QueryTimeRange), h.defaultTimeRange())
	validationError := ""
	if err == nil && params.AccountID != "" {
		err = h.validator.Struct(params)
	}
	if err != nil {
		validationError = validationMessage(err)
	} else {
		if session == nil && params.AccountID != "" {
			session = h.sessionFor(c)
		}
		if session != nil {
			if _, err := session.SyncFromStore(ctx, params); err != nil && !errors.Is(err, service.ErrStaleResponse) {
				h.log.DebugContext(ctx, "Dashboard refresh failed", logger.ErrorField(err))
			}
		}
	}

	return h.renderDashboard(c, http.StatusOK, session, validationError)
}

// submitDashboard is the form submit: refresh right away, then move the
// parameters into the URL so the page stays bookmarkable.
func (h *HttpAPIHandler) submitDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	params := new(dto.QueryParameters)
	if err := c.Bind(params); err != nil {
		session, _ := h.existingSession(c)
		return h.renderDashboard(c, http.StatusBadRequest, session, "invalid form submission")
	}
	params.AccountID = strings.TrimSpace(params.AccountID)
	if err := h.validator.Struct(params); err != nil {
		session, _ := h.existingSession(c)
		return h.renderDashboard(c, http.StatusBadRequest, session, validationMessage(err))
	}

	session := h.sessionFor(c)
	session.SetParameters(params.AccountID, params.TimeRange)
	if err := session.Refresh(ctx); err != nil && !errors.Is(err, service.ErrStaleResponse) {
		h.log.DebugContext(ctx, "Dashboard refresh failed", logger.ErrorField(err))
	}
	session.MarkObserved(*params)

	return c.Redirect(http.StatusSeeOther, dashboardURL(*params))
}

func (h *HttpAPIHandler) renderChart(c echo.Context) error {
	kind := presenter.ChartKind(strings.TrimSuffix(c.Param("name"), ".png"))

	session, err := h.existingSession(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	}

	var buf bytes.Buffer
	err = h.charts.Render(kind, session.Snapshot().Records, &buf)
	switch {
	case errors.Is(err, presenter.ErrUnknownChartKind), errors.Is(err, presenter.ErrNoData):
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	case err != nil:
		h.log.ErrorContext(c.Request().Context(), "Failed to render chart",
			logger.StringField("chart", string(kind)),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewInternalErrorResponse("failed to render chart"))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// renderDashboard draws the page for session, or a blank page when there is none.
func (h *HttpAPIHandler) renderDashboard(c echo.Context, code int, session *service.Session, validationError string) error {
	if session == nil {
		session = h.service.SessionManager.New()
	}
	state := session.Snapshot()
	view := presenter.BuildDashboard(presenter.DashboardInput{
		Params:          state.Params,
		Status:          string(state.Status),
		Records:         state.Records,
		Err:             state.Err,
		ValidationError: validationError,
		RequestID:       state.RequestID,
	}, service.Summarize(state.Records), h.loc)
	return c.Render(code, presenter.DashboardTemplate, view)
}

// sessionFor returns the visitor's session, issuing a cookie for new visitors.
func (h *HttpAPIHandler) sessionFor(c echo.Context) *service.Session {
	cookieName := h.cfg.Dashboard.SessionCookie
	current := ""
	if cookie, err := c.Cookie(cookieName); err == nil {
		current = cookie.Value
	}

	id, session := h.service.SessionManager.GetOrCreate(current)
	if id != current {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session
}

func (h *HttpAPIHandler) existingSession(c echo.Context) (*service.Session, error) {
	cookie, err := c.Cookie(h.cfg.Dashboard.SessionCookie)
	if err != nil {
		return nil, service.ErrSessionNotFound
	}
	return h.service.SessionManager.Get(cookie.Value)
}

func (h *HttpAPIHandler) defaultTimeRange() int {
	if h.cfg.Statistics.DefaultTimeRange > 0 {
		return h.cfg.Statistics.DefaultTimeRange
	}
	return dto.DefaultTimeRange
}

func dashboardURL(params dto.QueryParameters) string {
	q := url.Values{}
	for k, v := range params.Values() {
		q.Set(k, v)
	}
	return "/?" + q.Encode()
}

func validationMessage(err error) string {
	var fieldErrs goValidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

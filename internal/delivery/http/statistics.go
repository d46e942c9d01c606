package http

import (
	"net/http"

	"trading-statistics/internal/dto"
	"trading-statistics/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStatistics(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/statistics", h.GetStatistics)
		v1.GET("/session", h.GetSession)
	}
}

func (h *HttpAPIHandler) GetStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	params, err := dto.ParseQueryParameters(c.QueryParam(dto.QueryAccountID), c.QueryParam(dto.QueryTimeRange), h.defaultTimeRange())
	if err == nil {
		err = h.validator.Struct(params)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(validationMessage(err)))
	}

	result, err := h.service.StatisticsService.Fetch(ctx, params)
	if err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewUpstreamErrorResponse("failed to fetch statistics"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", result))
}

// GetSession exposes the dashboard session of the calling browser.
func (h *HttpAPIHandler) GetSession(c echo.Context) error {
	session, err := h.existingSession(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	}

	state := session.Snapshot()
	data := dto.SessionSnapshot{
		Params:    state.Params,
		Status:    string(state.Status),
		RequestID: state.RequestID,
		Points:    state.Records,
		Summary:   service.Summarize(state.Records),
	}
	if state.Err != nil {
		data.Error = state.Err.Error()
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", data))
}

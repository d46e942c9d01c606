package http

import (
	"context"
	"reflect"
	"strings"
	"time"

	"trading-statistics/config"
	"trading-statistics/internal/presenter"
	"trading-statistics/internal/service"
	"trading-statistics/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	charts    *presenter.ChartRenderer
	loc       *time.Location
}

func NewHttpAPIHandler(ctx context.Context, cfg *config.Config, log *logger.Logger, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	loc := cfg.DisplayLocation()
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      echo,
		validator: validator,
		service:   service,
		charts:    presenter.NewChartRenderer(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight, loc),
		loc:       loc,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.SetupDashboard(h.echo)
	base := h.echo.Group("/api")
	h.SetupStatistics(base)
}

// NewValidator names fields by their json tag so messages match the URL parameters.
func NewValidator() *goValidator.Validate {
	v := goValidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

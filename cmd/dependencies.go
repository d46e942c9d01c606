package cmd

import (
	"context"

	"trading-statistics/config"
	httpDelivery "trading-statistics/internal/delivery/http"
	"trading-statistics/internal/presenter"
	"trading-statistics/pkg/cache"
	"trading-statistics/pkg/logger"
	"trading-statistics/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := presenter.NewTemplateRenderer()
	if err != nil {
		log.Error("Failed to parse dashboard templates", logger.ErrorField(err))
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.WithRequestLogger(log))
	e.Use(middleware.NewRateLimiterMiddleware(cfg.API.RateLimit, cfg.API.RateBurst, cfg.API.RateExpire))

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: httpDelivery.NewValidator(),
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	var sink logger.AlertSink
	if cfg.Alert.WebhookURL != "" {
		sink = logger.NewWebhookSink(cfg.Alert.WebhookURL, cfg.Alert.Timeout)
	}
	return logger.New(cfg.Log.Level, cfg.Log.Encoding, sink, cfg.Alert.MinLevel)
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	d.cache.Flush()
	_ = d.log.Sync()
	return nil
}

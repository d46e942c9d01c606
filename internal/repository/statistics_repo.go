package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"trading-statistics/config"
	"trading-statistics/internal/dto"
	"trading-statistics/pkg/httpclient"
	"trading-statistics/pkg/logger"
	"trading-statistics/pkg/ratelimit"

	"golang.org/x/time/rate"
)

const statisticsEndpoint = "/Private/TradingAccountPOC/TradingAccounts/%s/GetStatistics"

var (
	ErrUnexpectedStatus = errors.New("statistics api returned unexpected status")
	ErrMalformedBody    = errors.New("statistics api returned malformed body")
)

type StatisticsRepository interface {
	GetStatistics(ctx context.Context, param dto.QueryParameters) ([]dto.DailyRecord, error)
}

type statisticsRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	log            *logger.Logger
	requestLimiter *ratelimit.LimiterStore
}

// NewStatisticsRepository creates a repository for the trading-account
// statistics endpoint, throttled to statistics.max_request_per_min per account.
func NewStatisticsRepository(cfg *config.Config, log *logger.Logger) StatisticsRepository {
	return newStatisticsRepository(cfg, log, httpclient.New(cfg.Statistics.BaseURL, cfg.Statistics.Timeout, ""))
}

func newStatisticsRepository(cfg *config.Config, log *logger.Logger, client httpclient.HTTPClient) *statisticsRepository {
	perRequest := time.Minute / time.Duration(cfg.Statistics.MaxRequestPerMin)
	return &statisticsRepository{
		httpClient:     client,
		cfg:            cfg,
		log:            log,
		requestLimiter: ratelimit.NewLimiterStore(rate.Every(perRequest), cfg.Statistics.MaxRequestPerMin),
	}
}

func (r *statisticsRepository) GetStatistics(ctx context.Context, param dto.QueryParameters) ([]dto.DailyRecord, error) {
	limiter := r.requestLimiter.GetLimiter(param.AccountID)
	if !limiter.Allow() {
		r.log.WarnContext(ctx, "Statistics API request limit reached, waiting",
			logger.IntField("max_request_per_min", r.cfg.Statistics.MaxRequestPerMin),
			logger.StringField("account_id", param.AccountID),
		)
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := fmt.Sprintf(statisticsEndpoint, url.PathEscape(param.AccountID))
	queryParams := map[string]string{
		dto.QueryTimeRange: strconv.Itoa(param.TimeRange),
	}

	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statistics: %w", err)
	}

	if !resp.IsSuccess() {
		r.log.ErrorContext(ctx, "Statistics API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("account_id", param.AccountID),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var statsResp dto.StatisticsResponse
	if err := json.Unmarshal(resp.Body, &statsResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return statsResp.GetPoints(), nil
}

package service

import (
	"context"

	"trading-statistics/internal/dto"
	"trading-statistics/pkg/logger"
)

// StatisticsService answers one-shot statistics queries (JSON API, CLI).
type StatisticsService interface {
	Fetch(ctx context.Context, params dto.QueryParameters) (*dto.StatisticsResult, error)
}

type statisticsService struct {
	log      *logger.Logger
	sessions *SessionManager
}

func NewStatisticsService(log *logger.Logger, sessions *SessionManager) StatisticsService {
	return &statisticsService{
		log:      log,
		sessions: sessions,
	}
}

// Fetch runs a throwaway Session for params, so one-shot callers go through
// the same fetch, derive and report path as the dashboard.
func (s *statisticsService) Fetch(ctx context.Context, params dto.QueryParameters) (*dto.StatisticsResult, error) {
	session := s.sessions.New()
	session.SetParameters(params.AccountID, params.TimeRange)
	if err := session.Refresh(ctx); err != nil {
		return nil, err
	}

	state := session.Snapshot()
	s.log.InfoContext(ctx, "Statistics fetched",
		logger.StringField("account_id", params.AccountID),
		logger.IntField("time_range", params.TimeRange),
		logger.IntField("points", len(state.Records)),
	)
	return &dto.StatisticsResult{
		Params:  state.Params,
		Status:  string(state.Status),
		Points:  state.Records,
		Summary: Summarize(state.Records),
	}, nil
}

package service

import (
	"trading-statistics/config"
	"trading-statistics/internal/repository"
	"trading-statistics/pkg/cache"
	"trading-statistics/pkg/logger"
)

type Service struct {
	StatisticsService StatisticsService
	SessionManager    *SessionManager
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	sessionStore cache.Cache,
) *Service {
	reporter := NewLogReporter(log)
	sessionManager := NewSessionManager(cfg, log, repo.StatisticsRepo, reporter, sessionStore)
	return &Service{
		StatisticsService: NewStatisticsService(log, sessionManager),
		SessionManager:    sessionManager,
	}
}

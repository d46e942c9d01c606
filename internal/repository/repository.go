package repository

import (
	"trading-statistics/config"
	"trading-statistics/pkg/logger"
)

type Repository struct {
	StatisticsRepo StatisticsRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) *Repository {
	return &Repository{
		StatisticsRepo: NewStatisticsRepository(cfg, log),
	}
}

package service

import (
	"context"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/api/repository"
)

// StatsService records and reads results of registered users against the AI.
type StatsService interface {
	RecordGame(ctx context.Context, userID int64, result models.GameResult) error
	GetStats(ctx context.Context, userID int64) (*models.StatsResponse, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) RecordGame(ctx context.Context, userID int64, result models.GameResult) error {
	return s.statsRepo.RecordResult(ctx, userID, result)
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*models.StatsResponse, error) {
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.StatsResponse{UserStats: *stats, GamesPlayed: stats.Total()}, nil
}

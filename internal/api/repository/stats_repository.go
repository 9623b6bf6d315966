package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/api/models"

	"github.com/jmoiron/sqlx"
)

// StatsRepository stores per-user counters of games against the AI.
type StatsRepository interface {
	RecordResult(ctx context.Context, userID int64, result models.GameResult) error
	GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error)
}

type sqliteStatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new SQLite-based StatsRepository.
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &sqliteStatsRepository{db: db}
}

// RecordResult increments one counter, creating the row on first use.
func (r *sqliteStatsRepository) RecordResult(ctx context.Context, userID int64, result models.GameResult) error {
	var win, loss, draw int
	switch result {
	case models.ResultWin:
		win = 1
	case models.ResultLoss:
		loss = 1
	case models.ResultDraw:
		draw = 1
	default:
		return fmt.Errorf("unknown game result %q", result)
	}

	query := `
	INSERT INTO user_stats (user_id, wins, losses, draws) VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		wins = wins + excluded.wins,
		losses = losses + excluded.losses,
		draws = draws + excluded.draws`
	if _, err := r.db.ExecContext(ctx, query, userID, win, loss, draw); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// GetByUserID returns the counters of a user; users without games get zeros.
func (r *sqliteStatsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats := models.UserStats{UserID: userID}
	query := `SELECT user_id, wins, losses, draws FROM user_stats WHERE user_id = ?`
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

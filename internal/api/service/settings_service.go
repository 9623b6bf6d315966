package service

import (
	"context"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/repository"
)

// SettingsService reads and replaces player preferences.
type SettingsService interface {
	Get(ctx context.Context, playerID string) (game.Settings, error)
	Update(ctx context.Context, playerID string, s game.Settings) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	publisher    events.Publisher
}

// NewSettingsService creates a new SettingsService. Updates are announced
// through publisher so a live room picks them up; publisher may be nil.
func NewSettingsService(settingsRepo repository.SettingsRepository, publisher events.Publisher) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, publisher: publisher}
}

func (s *settingsService) Get(ctx context.Context, playerID string) (game.Settings, error) {
	return s.settingsRepo.Get(ctx, playerID)
}

// Update saves the settings. A failed announcement is logged; the stored
// settings still apply from the next session on.
func (s *settingsService) Update(ctx context.Context, playerID string, settings game.Settings) error {
	if err := s.settingsRepo.Save(ctx, playerID, settings); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	payload := events.SettingsChangedPayload{PlayerID: playerID, Settings: settings}
	if err := s.publisher.Publish(ctx, events.TypeSettingsChanged, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish settings_changed event", "player.id", playerID, "error", err)
	}
	return nil
}

package models

import "neonttt/Tic-Tac-Toe/internal/game"

// SettingsRequest replaces a player's settings.
type SettingsRequest struct {
	PlayerID   string `json:"player_id" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard impossible"`
	Animations *bool  `json:"animations" binding:"required"`
	Sounds     *bool  `json:"sounds" binding:"required"`
}

// Settings converts the request into domain settings.
func (r SettingsRequest) Settings() game.Settings {
	return game.Settings{
		Difficulty: game.Difficulty(r.Difficulty),
		Animations: *r.Animations,
		Sounds:     *r.Sounds,
	}
}

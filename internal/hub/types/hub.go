package types

import (
	"context"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/player"
)

// PlayerMove is a raw message read from a player's connection.
type PlayerMove struct {
	Player  *player.Player
	Message []byte
}

// RegistrationRequest represents a request to register a player.
type RegistrationRequest struct {
	Player *player.Player
	Mode   game.Mode // empty keeps the mode of a resumed session
	Ctx    context.Context
}

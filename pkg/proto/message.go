package proto

import "neonttt/Tic-Tac-Toe/internal/game"

// Message types exchanged over the websocket.
const (
	TypeMove       = "move"
	TypeReset      = "reset"
	TypeNewGame    = "new_game"
	TypeSetMode    = "set_mode"
	TypeSettings   = "settings"
	TypeUpdate     = "update"
	TypeAssignment = "assignment"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string         `json:"type" validate:"required,oneof=move reset new_game set_mode settings"`
	Index    *int           `json:"index,omitempty" validate:"required_if=Type move"`
	Mode     string         `json:"mode,omitempty" validate:"omitempty,oneof=human ai"`
	Settings *game.Settings `json:"settings,omitempty" validate:"required_if=Type settings"`
	// Version, when set, must match the version of the board the move was chosen for.
	Version *int `json:"version,omitempty" validate:"omitempty,min=0"`
}

// ScoresView is the scoreboard as shown to the client.
type ScoresView struct {
	game.Scoreboard
	WinRate int `json:"winRate"`
}

// NewScoresView builds the client view of a scoreboard.
func NewScoresView(s game.Scoreboard) *ScoresView {
	return &ScoresView{Scoreboard: s, WinRate: s.WinRate()}
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type        string            `json:"type" validate:"required"`
	Reason      string            `json:"reason,omitempty"`
	Board       []game.PlayerMark `json:"board,omitempty"`
	Next        game.PlayerMark   `json:"next,omitempty"`
	Status      game.Status       `json:"status,omitempty"`
	Winner      game.PlayerMark   `json:"winner,omitempty"`
	WinningLine []int             `json:"winningLine,omitempty"`
	Mode        game.Mode         `json:"mode,omitempty"`
	Scores      *ScoresView       `json:"scores,omitempty"`
	Settings    *game.Settings    `json:"settings,omitempty"`
	Version     int               `json:"version,omitempty"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
type PlayerAssignmentMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId,omitempty"`
	RoomID   string          `json:"roomId,omitempty"`
	Mark     game.PlayerMark `json:"mark"`
}

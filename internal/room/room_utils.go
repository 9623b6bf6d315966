package room

import (
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
)

// AddPlayer adds a player to the room.
func (r *Room) AddPlayer(p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Players = append(r.Players, p)
	if p.IsBot {
		r.applyDifficultyLocked()
	}
}

// IncomingMoves returns the channel for incoming player moves.
func (r *Room) IncomingMoves() chan<- *types.PlayerMove {
	return r.incomingMoves
}

// HasPlayer reports whether p, by identity, is still seated in the room.
func (r *Room) HasPlayer(p *player.Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, seated := range r.Players {
		if seated == p {
			return true
		}
	}
	return false
}

// Mode returns the current game mode.
func (r *Room) Mode() game.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Room) humanLocked() *player.Player {
	for _, p := range r.Players {
		if !p.IsBot {
			return p
		}
	}
	return nil
}

func (r *Room) botLocked() *player.Player {
	for _, p := range r.Players {
		if p.IsBot {
			return p
		}
	}
	return nil
}

// markFor returns the mark p is allowed to place right now.
// In human mode the browser plays both marks; in AI mode the human is X and the bot is O.
func (r *Room) markFor(p *player.Player) (game.PlayerMark, bool) {
	switch {
	case p.IsBot && r.mode == game.ModeAI:
		return game.PlayerO, true
	case p.IsBot:
		return game.None, false
	case r.mode == game.ModeAI:
		return game.PlayerX, true
	default:
		return r.game.CurrentTurn, true
	}
}

// botMark is the mark assigned to the bot seat; None keeps it idle.
func (r *Room) botMark() game.PlayerMark {
	if r.mode == game.ModeAI {
		return game.PlayerO
	}
	return game.None
}

func (r *Room) humanMark() game.PlayerMark {
	if r.mode == game.ModeAI {
		return game.PlayerX
	}
	return game.None
}

func (r *Room) applyDifficultyLocked() {
	bot := r.botLocked()
	if bot == nil {
		return
	}
	if setter, ok := bot.Conn.(difficultySetter); ok {
		setter.SetDifficulty(r.settings.Difficulty)
	}
}

// Package games contains the authoritative rule engine for each game
// variant. Engines are pure: given the same match metadata and move log
// they always produce the same state. Any match-start randomness (the
// hangman word) is fixed once by InitialState and stored in match
// metadata, never re-rolled on recompute.
package games

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// Result is the outcome of recomputing a match's state from its move log.
type Result struct {
	State        json.RawMessage
	IsTerminal   bool
	WinnerID     *uuid.UUID // nil means draw when IsTerminal is true
	NextPlayerID *uuid.UUID // nil once terminal, or for variants without turn order
}

// Engine maps (match metadata, ordered move history) to the current
// game state. Payloads that are illegal for the variant (occupied cell,
// over-removal, duplicate letter) are no-ops at recompute time; turn
// order is enforced before a move ever reaches the engine.
type Engine interface {
	// InitialState fixes match-start randomness and returns the opening
	// state snapshot plus any metadata to persist on the match record.
	// The match is already paired when this is called.
	InitialState(match *entities.Match) (json.RawMessage, map[string]string, error)

	// ComputeState derives the current state from the full ordered move
	// log. It never mutates the match or the moves.
	ComputeState(match *entities.Match, moves []*entities.Move) (*Result, error)

	// Alternating reports whether the variant enforces strict turn order.
	Alternating() bool
}

// ForType returns the rule engine for a game variant
func ForType(gameType entities.GameType) (Engine, error) {
	switch gameType {
	case entities.GameTypeRockPaperScissors:
		return &RockPaperScissorsEngine{}, nil
	case entities.GameTypeTicTacToe:
		return &TicTacToeEngine{}, nil
	case entities.GameTypeSticks:
		return &SticksEngine{}, nil
	case entities.GameTypeHangman:
		return &HangmanEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown game type: %s", gameType)
	}
}

package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"arena/domain/entities"
	"arena/domain/games"
)

// Validation rejection reasons. These never reach the client; the
// adjudicator logs them and drops the move.
var (
	ErrMatchNotInProgress = errors.New("match is not in progress")
	ErrNotParticipant     = errors.New("player is not a participant in this match")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrMatchComplete      = errors.New("both participants have already committed")
)

// MoveValidator contains the pure turn-order rules applied before a
// move is accepted into the log. Payload legality is deliberately not
// checked here: the rule engines treat illegal payloads as no-ops at
// recompute time.
type MoveValidator struct{}

// NewMoveValidator creates a new MoveValidator
func NewMoveValidator() *MoveValidator {
	return &MoveValidator{}
}

// Validate checks whether the author may append a move given the match
// state and the recorded history.
func (v *MoveValidator) Validate(match *entities.Match, history []*entities.Move, authorID uuid.UUID) error {
	if match.Status != entities.MatchStatusInProgress {
		return ErrMatchNotInProgress
	}
	if !match.IsParticipant(authorID) {
		return ErrNotParticipant
	}

	engine, err := games.ForType(match.GameType)
	if err != nil {
		return fmt.Errorf("no engine for match %s: %w", match.ID, err)
	}

	if engine.Alternating() {
		// Even history length means the second joiner is due to move.
		if match.ExpectedMover(len(history)) != authorID {
			return ErrNotYourTurn
		}
		return nil
	}

	// Simultaneous variant: a participant may resubmit to change their
	// choice until the opponent has also committed. The only hard
	// rejection is both sides already being on record.
	seen := map[uuid.UUID]bool{}
	for _, mv := range history {
		seen[mv.PlayerID] = true
	}
	if len(seen) >= 2 {
		return ErrMatchComplete
	}
	return nil
}

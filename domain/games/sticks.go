package games

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// sticksStartCount is the shared countdown every match starts from.
const sticksStartCount = 21

// SticksEngine adjudicates the countdown-removal variant. Each move
// removes 1 to 3 sticks, strictly alternating. The participant whose
// move brings the count to zero loses.
type SticksEngine struct{}

type sticksMovePayload struct {
	Take int `json:"take"`
}

type sticksState struct {
	Remaining     int        `json:"remaining"`
	CurrentPlayer *uuid.UUID `json:"currentPlayer"`
}

func (e *SticksEngine) Alternating() bool { return true }

func (e *SticksEngine) InitialState(match *entities.Match) (json.RawMessage, map[string]string, error) {
	first := match.FirstMover()
	state := sticksState{Remaining: sticksStartCount, CurrentPlayer: &first}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal initial sticks state: %w", err)
	}
	return raw, nil, nil
}

func (e *SticksEngine) ComputeState(match *entities.Match, moves []*entities.Move) (*Result, error) {
	if match.PlayerTwoID == nil {
		return nil, fmt.Errorf("match %s is not paired", match.ID)
	}

	remaining := sticksStartCount
	var loser *uuid.UUID

	for _, mv := range moves {
		var payload sticksMovePayload
		if err := json.Unmarshal(mv.Payload, &payload); err != nil {
			continue
		}
		// Removing 0, more than 3, or more than remain is a no-op.
		if payload.Take < 1 || payload.Take > 3 || payload.Take > remaining {
			continue
		}
		remaining -= payload.Take
		if remaining == 0 {
			playerID := mv.PlayerID
			loser = &playerID
			break
		}
	}

	state := sticksState{Remaining: remaining}
	result := &Result{}

	if loser != nil {
		winner := match.Opponent(*loser)
		result.IsTerminal = true
		result.WinnerID = &winner
	} else {
		next := match.ExpectedMover(len(moves))
		state.CurrentPlayer = &next
		result.NextPlayerID = &next
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	result.State = raw
	return result, nil
}

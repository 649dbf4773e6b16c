package games

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// Valid rock/paper/scissors choices and what each one beats.
var rpsBeats = map[string]string{
	"rock":     "scissors",
	"paper":    "rock",
	"scissors": "paper",
}

// RockPaperScissorsEngine adjudicates the simultaneous-choice variant.
// Only the latest move per participant counts, so a player may change
// their choice until the opponent has also committed. Once both sides
// have a choice on record the match is terminal.
type RockPaperScissorsEngine struct{}

type rpsMovePayload struct {
	Move string `json:"move"`
}

// rpsState is the broadcast snapshot. Choices stay hidden until both
// sides have committed; before that only the committed flags go out.
type rpsState struct {
	Committed map[string]bool   `json:"committed"`
	Choices   map[string]string `json:"choices,omitempty"`
	Revealed  bool              `json:"revealed"`
}

func (e *RockPaperScissorsEngine) Alternating() bool { return false }

func (e *RockPaperScissorsEngine) InitialState(match *entities.Match) (json.RawMessage, map[string]string, error) {
	state := rpsState{Committed: map[string]bool{}}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal initial rps state: %w", err)
	}
	return raw, nil, nil
}

func (e *RockPaperScissorsEngine) ComputeState(match *entities.Match, moves []*entities.Move) (*Result, error) {
	if match.PlayerTwoID == nil {
		return nil, fmt.Errorf("match %s is not paired", match.ID)
	}

	// Latest valid move per author wins.
	choices := map[uuid.UUID]string{}
	for _, mv := range moves {
		var payload rpsMovePayload
		if err := json.Unmarshal(mv.Payload, &payload); err != nil {
			continue
		}
		if _, ok := rpsBeats[payload.Move]; !ok {
			continue
		}
		choices[mv.PlayerID] = payload.Move
	}

	one := match.PlayerOneID
	two := *match.PlayerTwoID
	choiceOne, hasOne := choices[one]
	choiceTwo, hasTwo := choices[two]

	state := rpsState{
		Committed: map[string]bool{
			one.String(): hasOne,
			two.String(): hasTwo,
		},
	}

	if !hasOne || !hasTwo {
		raw, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		return &Result{State: raw}, nil
	}

	state.Revealed = true
	state.Choices = map[string]string{
		one.String(): choiceOne,
		two.String(): choiceTwo,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	result := &Result{State: raw, IsTerminal: true}
	switch {
	case choiceOne == choiceTwo:
		// draw, winner stays nil
	case rpsBeats[choiceOne] == choiceTwo:
		result.WinnerID = &one
	default:
		result.WinnerID = &two
	}
	return result, nil
}

package games

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// The 8 winning lines on a 3x3 grid: rows, columns, diagonals.
var tttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// TicTacToeEngine adjudicates the grid-claim variant. Marks alternate
// strictly, second joiner first. Moves into occupied or out-of-range
// cells are recompute-time no-ops that still consume their turn.
type TicTacToeEngine struct{}

type tttMovePayload struct {
	Position *int `json:"position"`
}

type tttState struct {
	Board         [9]string  `json:"board"`
	CurrentPlayer *uuid.UUID `json:"currentPlayer"`
	WinningLine   []int      `json:"winningLine,omitempty"`
}

func (e *TicTacToeEngine) Alternating() bool { return true }

func (e *TicTacToeEngine) InitialState(match *entities.Match) (json.RawMessage, map[string]string, error) {
	first := match.FirstMover()
	state := tttState{CurrentPlayer: &first}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal initial tic-tac-toe state: %w", err)
	}
	return raw, nil, nil
}

func (e *TicTacToeEngine) ComputeState(match *entities.Match, moves []*entities.Move) (*Result, error) {
	if match.PlayerTwoID == nil {
		return nil, fmt.Errorf("match %s is not paired", match.ID)
	}

	// Second joiner plays X and opens the game.
	marks := map[uuid.UUID]string{
		*match.PlayerTwoID: "X",
		match.PlayerOneID:  "O",
	}

	var board [9]string
	var winner *uuid.UUID
	var winningLine []int
	filled := 0

	for _, mv := range moves {
		var payload tttMovePayload
		if err := json.Unmarshal(mv.Payload, &payload); err != nil || payload.Position == nil {
			continue
		}
		pos := *payload.Position
		if pos < 0 || pos > 8 || board[pos] != "" {
			continue
		}
		board[pos] = marks[mv.PlayerID]
		filled++

		if line, won := winningLineFor(board, marks[mv.PlayerID]); won {
			playerID := mv.PlayerID
			winner = &playerID
			winningLine = line
			break
		}
	}

	state := tttState{Board: board, WinningLine: winningLine}
	result := &Result{}

	switch {
	case winner != nil:
		result.IsTerminal = true
		result.WinnerID = winner
	case filled == 9:
		result.IsTerminal = true // draw
	default:
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

func winningLineFor(board [9]string, mark string) ([]int, bool) {
	for _, line := range tttLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return line[:], true
		}
	}
	return nil, false
}

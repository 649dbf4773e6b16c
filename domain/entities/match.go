package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameType identifies the game variant a match is played under.
type GameType string

const (
	GameTypeRockPaperScissors GameType = "rock_paper_scissors"
	GameTypeTicTacToe         GameType = "tic_tac_toe"
	GameTypeSticks            GameType = "sticks"
	GameTypeHangman           GameType = "hangman"
)

// IsValid reports whether the game type is one of the supported variants
func (gt GameType) IsValid() bool {
	switch gt {
	case GameTypeRockPaperScissors, GameTypeTicTacToe, GameTypeSticks, GameTypeHangman:
		return true
	}
	return false
}

// String returns the string representation of the game type
func (gt GameType) String() string {
	return string(gt)
}

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusWaiting    MatchStatus = "waiting"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
)

// Match represents one instance of two players playing a game variant
// for a stake. A waiting match has no second player; pairing assigns
// PlayerTwoID and moves the match to in_progress in a single atomic step.
type Match struct {
	ID          uuid.UUID         `db:"id"`
	GameType    GameType          `db:"game_type"`
	Stake       decimal.Decimal   `db:"stake"`
	PlayerOneID uuid.UUID         `db:"player_one_id"`
	PlayerTwoID *uuid.UUID        `db:"player_two_id"`
	Status      MatchStatus       `db:"status"`
	WinnerID    *uuid.UUID        `db:"winner_id"`
	Metadata    map[string]string `db:"metadata"`
	GameState   json.RawMessage   `db:"game_state"`
	CreatedAt   time.Time         `db:"created_at"`
	FinishedAt  *time.Time        `db:"finished_at"`
}

// IsParticipant checks if a player is involved in the match
func (m *Match) IsParticipant(playerID uuid.UUID) bool {
	if m.PlayerOneID == playerID {
		return true
	}
	return m.PlayerTwoID != nil && *m.PlayerTwoID == playerID
}

// Opponent returns the other participant's ID for a given participant.
// Returns uuid.Nil if the given player is not a participant or the
// match is not yet paired.
func (m *Match) Opponent(playerID uuid.UUID) uuid.UUID {
	if m.PlayerTwoID == nil {
		return uuid.Nil
	}
	if m.PlayerOneID == playerID {
		return *m.PlayerTwoID
	}
	if *m.PlayerTwoID == playerID {
		return m.PlayerOneID
	}
	return uuid.Nil
}

// CanBeJoinedBy checks if the match is open for the given player to join.
// A player may never join their own waiting match.
func (m *Match) CanBeJoinedBy(playerID uuid.UUID) bool {
	return m.Status == MatchStatusWaiting && m.PlayerTwoID == nil && m.PlayerOneID != playerID
}

// FirstMover returns the participant who moves first: the second joiner,
// not the match creator. Turn parity for every variant is anchored here.
func (m *Match) FirstMover() uuid.UUID {
	if m.PlayerTwoID == nil {
		return uuid.Nil
	}
	return *m.PlayerTwoID
}

// ExpectedMover returns which participant is due to move given how many
// moves are already recorded. Even counts belong to the second joiner.
func (m *Match) ExpectedMover(movesRecorded int) uuid.UUID {
	if m.PlayerTwoID == nil {
		return uuid.Nil
	}
	if movesRecorded%2 == 0 {
		return *m.PlayerTwoID
	}
	return m.PlayerOneID
}

// IsDraw reports whether a finished match ended without a winner
func (m *Match) IsDraw() bool {
	return m.Status == MatchStatusFinished && m.WinnerID == nil
}

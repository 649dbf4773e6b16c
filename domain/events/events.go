package events

import (
	"encoding/json"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// EventType discriminates outbound messages on the wire
type EventType string

const (
	EventTypeUserSession EventType = "user_session"
	EventTypeMatchFound  EventType = "match_found"
	EventTypeGameUpdate  EventType = "game_update"
	EventTypeGameResult  EventType = "game_result"
	EventTypeError       EventType = "error"
)

// Event is the base interface for all outbound notifications
type Event interface {
	Type() EventType
}

// UserSessionEvent announces the minted identity to a new connection
type UserSessionEvent struct {
	User *entities.Player `json:"user"`
}

func (e UserSessionEvent) Type() EventType {
	return EventTypeUserSession
}

// MatchFoundEvent is sent to both participants when a match is paired
type MatchFoundEvent struct {
	MatchID   uuid.UUID       `json:"matchId"`
	GameType  string          `json:"gameType"`
	GameState json.RawMessage `json:"gameState"`
}

func (e MatchFoundEvent) Type() EventType {
	return EventTypeMatchFound
}

// GameUpdateEvent carries the recomputed state after every accepted move
type GameUpdateEvent struct {
	MatchID       uuid.UUID       `json:"matchId"`
	GameState     json.RawMessage `json:"gameState"`
	CurrentPlayer *uuid.UUID      `json:"currentPlayer"`
	MoveNumber    int             `json:"moveNumber"`
}

func (e GameUpdateEvent) Type() EventType {
	return EventTypeGameUpdate
}

// GameResultEvent is personalized per recipient: Result is framed from
// that recipient's own perspective.
type GameResultEvent struct {
	MatchID   uuid.UUID       `json:"matchId"`
	Result    string          `json:"result"` // "win", "lose" or "draw"
	GameState json.RawMessage `json:"gameState"`
	WinnerID  *uuid.UUID      `json:"winnerId"`
}

func (e GameResultEvent) Type() EventType {
	return EventTypeGameResult
}

// ErrorEvent surfaces a protocol error back to the offending connection
type ErrorEvent struct {
	Message string `json:"message"`
}

func (e ErrorEvent) Type() EventType {
	return EventTypeError
}

package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/domain/entities"
	"arena/domain/events"
)

// PlayerService defines the interface for player identity and balance operations
type PlayerService interface {
	// CreateGuest mints a fresh ephemeral player with the starting balance
	CreateGuest(ctx context.Context, name string) (*entities.Player, error)

	// GetPlayer retrieves a player by ID, nil when absent
	GetPlayer(ctx context.Context, id uuid.UUID) (*entities.Player, error)

	// GetPlayerStats retrieves cumulative stats for a player
	GetPlayerStats(ctx context.Context, id uuid.UUID) (*entities.PlayerStats, error)

	// Deposit credits a player's balance and appends a ledger entry
	Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entities.Player, error)

	// Withdraw debits a player's balance and appends a ledger entry
	Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entities.Player, error)
}

// MatchmakingService pairs players into matches
type MatchmakingService interface {
	// QueueForMatch joins the first available waiting match for the game
	// type and stake, or creates a new waiting match when none is
	// joinable. Returns the match and whether it is now paired.
	QueueForMatch(ctx context.Context, playerID uuid.UUID, gameType entities.GameType, stake decimal.Decimal) (*entities.Match, bool, error)
}

// Adjudicator processes inbound move events for a match
type Adjudicator interface {
	// HandleMove runs the full adjudication cycle for one move. Illegal
	// moves and collaborator failures are logged and dropped; no error
	// reaches the submitting client.
	HandleMove(ctx context.Context, matchID, authorID uuid.UUID, payload []byte)
}

// MatchNotifier delivers outbound events to connected participants.
// Delivery is best-effort: missing or closed channels are skipped.
type MatchNotifier interface {
	// BroadcastToMatch sends an event to every participant associated
	// with the match.
	BroadcastToMatch(matchID uuid.UUID, event events.Event)

	// SendToPlayer sends an event to a single connected player
	SendToPlayer(playerID uuid.UUID, event events.Event)
}

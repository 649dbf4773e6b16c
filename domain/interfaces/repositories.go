package interfaces

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/domain/entities"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByID retrieves a player by ID, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Player, error)

	// Create persists a new player
	Create(ctx context.Context, player *entities.Player) error

	// UpdateBalance sets a player's balance atomically
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// GetByID retrieves a match by ID, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Match, error)

	// Create persists a new waiting match
	Create(ctx context.Context, match *entities.Match) error

	// FindWaiting returns the first waiting match for the game type and
	// stake that was not created by excludePlayerID, nil when none exists.
	FindWaiting(ctx context.Context, gameType entities.GameType, stake decimal.Decimal, excludePlayerID uuid.UUID) (*entities.Match, error)

	// Pair atomically assigns the second participant and transitions the
	// match from waiting to in_progress, storing the initial game state
	// and metadata. Returns false when another join won the race.
	Pair(ctx context.Context, matchID, joinerID uuid.UUID, initialState json.RawMessage, metadata map[string]string) (bool, error)

	// UpdateState persists a recomputed game state snapshot
	UpdateState(ctx context.Context, matchID uuid.UUID, state json.RawMessage) error

	// Finish transitions the match to finished exactly once, recording
	// the winner (nil for a draw) and the final state.
	Finish(ctx context.Context, matchID uuid.UUID, winnerID *uuid.UUID, finalState json.RawMessage) error
}

// MoveRepository defines the interface for the append-only move log
type MoveRepository interface {
	// Create appends a move; duplicate (match, seq) pairs must fail
	Create(ctx context.Context, move *entities.Move) error

	// ListByMatch returns all moves for a match ordered by sequence number
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Move, error)
}

// TransactionRepository defines the interface for the balance ledger
type TransactionRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, tx *entities.Transaction) error

	// ListByPlayer returns recent ledger entries for a player
	ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*entities.Transaction, error)
}

// StatsRepository defines the interface for cumulative player statistics
type StatsRepository interface {
	// GetByPlayer retrieves stats for a player, zero-valued when absent
	GetByPlayer(ctx context.Context, playerID uuid.UUID) (*entities.PlayerStats, error)

	// Upsert persists the stats row for a player
	Upsert(ctx context.Context, stats *entities.PlayerStats) error
}

// UnitOfWork scopes a set of repositories to one storage transaction so
// a move cycle or a two-sided settlement commits or rolls back as a whole.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	Players() PlayerRepository
	Matches() MatchRepository
	Moves() MoveRepository
	Transactions() TransactionRepository
	Stats() StatsRepository
}

// UnitOfWorkFactory creates fresh units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

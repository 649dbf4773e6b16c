package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"arena/database"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q Queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) interfaces.PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

func newPlayerRepositoryWithTx(tx Queryable) interfaces.PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Player, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM players
		WHERE id = $1
	`

	var player entities.Player
	err := r.q.QueryRow(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Balance,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	return &player, nil
}

// Create persists a new player
func (r *PlayerRepository) Create(ctx context.Context, player *entities.Player) error {
	query := `
		INSERT INTO players (id, name, balance)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, player.ID, player.Name, player.Balance).Scan(
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", player.ID, err)
	}
	return nil
}

// UpdateBalance sets a player's balance atomically
func (r *PlayerRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	query := `
		UPDATE players
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for player %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %s not found", id)
	}
	return nil
}

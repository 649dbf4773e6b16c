package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"arena/database"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

// StatsRepository implements the StatsRepository interface
type StatsRepository struct {
	q Queryable
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) interfaces.StatsRepository {
	return &StatsRepository{q: db.Pool}
}

func newStatsRepositoryWithTx(tx Queryable) interfaces.StatsRepository {
	return &StatsRepository{q: tx}
}

// GetByPlayer retrieves stats for a player, nil when none recorded yet
func (r *StatsRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID) (*entities.PlayerStats, error) {
	query := `
		SELECT player_id, total_games, total_wins, total_losses, total_earnings, updated_at
		FROM player_stats
		WHERE player_id = $1
	`

	var stats entities.PlayerStats
	err := r.q.QueryRow(ctx, query, playerID).Scan(
		&stats.PlayerID,
		&stats.TotalGames,
		&stats.TotalWins,
		&stats.TotalLosses,
		&stats.TotalEarnings,
		&stats.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for player %s: %w", playerID, err)
	}

	return &stats, nil
}

// Upsert persists the stats row for a player
func (r *StatsRepository) Upsert(ctx context.Context, stats *entities.PlayerStats) error {
	query := `
		INSERT INTO player_stats (player_id, total_games, total_wins, total_losses, total_earnings, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (player_id) DO UPDATE SET
			total_games = EXCLUDED.total_games,
			total_wins = EXCLUDED.total_wins,
			total_losses = EXCLUDED.total_losses,
			total_earnings = EXCLUDED.total_earnings,
			updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query,
		stats.PlayerID,
		stats.TotalGames,
		stats.TotalWins,
		stats.TotalLosses,
		stats.TotalEarnings,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for player %s: %w", stats.PlayerID, err)
	}
	return nil
}

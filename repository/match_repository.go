package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"arena/database"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

// MatchRepository implements the MatchRepository interface
type MatchRepository struct {
	q Queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) interfaces.MatchRepository {
	return &MatchRepository{q: db.Pool}
}

func newMatchRepositoryWithTx(tx Queryable) interfaces.MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `
	id, game_type, stake, player_one_id, player_two_id,
	status, winner_id, metadata, game_state, created_at, finished_at
`

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return match, nil
}

// Create persists a new waiting match
func (r *MatchRepository) Create(ctx context.Context, match *entities.Match) error {
	query := `
		INSERT INTO matches (id, game_type, stake, player_one_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		match.ID,
		match.GameType,
		match.Stake,
		match.PlayerOneID,
		entities.MatchStatusWaiting,
	).Scan(&match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", match.ID, err)
	}
	return nil
}

// FindWaiting returns the oldest joinable waiting match for the game
// type and stake, excluding the requesting player's own matches.
func (r *MatchRepository) FindWaiting(ctx context.Context, gameType entities.GameType, stake decimal.Decimal, excludePlayerID uuid.UUID) (*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1 AND game_type = $2 AND stake = $3 AND player_one_id != $4
		ORDER BY created_at
		LIMIT 1
	`

	match, err := scanMatch(r.q.QueryRow(ctx, query, entities.MatchStatusWaiting, gameType, stake, excludePlayerID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find waiting match: %w", err)
	}
	return match, nil
}

// Pair atomically claims a waiting match for the joiner. The guarded
// UPDATE is the compare-and-set: of two concurrent joins, exactly one
// sees a row transition.
func (r *MatchRepository) Pair(ctx context.Context, matchID, joinerID uuid.UUID, initialState json.RawMessage, metadata map[string]string) (bool, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		UPDATE matches
		SET player_two_id = $2, status = $3, game_state = $4, metadata = $5
		WHERE id = $1 AND status = $6 AND player_two_id IS NULL AND player_one_id != $2
	`

	tag, err := r.q.Exec(ctx, query,
		matchID,
		joinerID,
		entities.MatchStatusInProgress,
		initialState,
		metadataJSON,
		entities.MatchStatusWaiting,
	)
	if err != nil {
		return false, fmt.Errorf("failed to pair match %s: %w", matchID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateState persists a recomputed game state snapshot
func (r *MatchRepository) UpdateState(ctx context.Context, matchID uuid.UUID, state json.RawMessage) error {
	query := `
		UPDATE matches
		SET game_state = $2
		WHERE id = $1 AND status = $3
	`

	tag, err := r.q.Exec(ctx, query, matchID, state, entities.MatchStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update state for match %s: %w", matchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s is not in progress", matchID)
	}
	return nil
}

// Finish transitions the match to finished exactly once
func (r *MatchRepository) Finish(ctx context.Context, matchID uuid.UUID, winnerID *uuid.UUID, finalState json.RawMessage) error {
	query := `
		UPDATE matches
		SET status = $2, winner_id = $3, game_state = $4, finished_at = NOW()
		WHERE id = $1 AND status = $5
	`

	tag, err := r.q.Exec(ctx, query,
		matchID,
		entities.MatchStatusFinished,
		winnerID,
		finalState,
		entities.MatchStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to finish match %s: %w", matchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s is not in progress", matchID)
	}
	return nil
}

func scanMatch(row pgx.Row) (*entities.Match, error) {
	var match entities.Match
	var metadataJSON []byte
	var stateJSON []byte

	err := row.Scan(
		&match.ID,
		&match.GameType,
		&match.Stake,
		&match.PlayerOneID,
		&match.PlayerTwoID,
		&match.Status,
		&match.WinnerID,
		&metadataJSON,
		&stateJSON,
		&match.CreatedAt,
		&match.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &match.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match metadata: %w", err)
		}
	}
	match.GameState = stateJSON

	return &match, nil
}

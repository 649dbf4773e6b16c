package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"arena/database"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

// MoveRepository implements the MoveRepository interface
type MoveRepository struct {
	q Queryable
}

// NewMoveRepository creates a new move repository
func NewMoveRepository(db *database.DB) interfaces.MoveRepository {
	return &MoveRepository{q: db.Pool}
}

func newMoveRepositoryWithTx(tx Queryable) interfaces.MoveRepository {
	return &MoveRepository{q: tx}
}

// Create appends a move. The unique (match_id, seq) constraint makes
// the append idempotent per sequence slot: a double-append from a
// resubmitted move fails instead of recording twice.
func (r *MoveRepository) Create(ctx context.Context, move *entities.Move) error {
	query := `
		INSERT INTO moves (match_id, player_id, seq, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		move.MatchID,
		move.PlayerID,
		move.Seq,
		move.Payload,
	).Scan(&move.ID, &move.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append move %d to match %s: %w", move.Seq, move.MatchID, err)
	}
	return nil
}

// ListByMatch returns all moves for a match ordered by sequence number
func (r *MoveRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Move, error) {
	query := `
		SELECT id, match_id, player_id, seq, payload, created_at
		FROM moves
		WHERE match_id = $1
		ORDER BY seq
	`

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var moves []*entities.Move
	for rows.Next() {
		var move entities.Move
		var payload []byte
		err := rows.Scan(
			&move.ID,
			&move.MatchID,
			&move.PlayerID,
			&move.Seq,
			&payload,
			&move.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		move.Payload = payload
		moves = append(moves, &move)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}

	return moves, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"arena/database"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Record appends a ledger entry
func (r *TransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	query := `
		INSERT INTO transactions (player_id, type, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		tx.PlayerID,
		tx.Type,
		tx.Amount,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction for player %s: %w", tx.PlayerID, err)
	}
	return nil
}

// ListByPlayer returns recent ledger entries for a player, newest first
func (r *TransactionRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, player_id, type, amount, description, created_at
		FROM transactions
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.PlayerID,
			&tx.Type,
			&tx.Amount,
			&tx.Description,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

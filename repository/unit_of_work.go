package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"arena/database"
	"arena/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface on a pgx transaction
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	playerRepo      interfaces.PlayerRepository
	matchRepo       interfaces.MatchRepository
	moveRepo        interfaces.MoveRepository
	transactionRepo interfaces.TransactionRepository
	statsRepo       interfaces.StatsRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Create returns a fresh, unstarted unit of work
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction and scopes the repositories to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.playerRepo = newPlayerRepositoryWithTx(tx)
	u.matchRepo = newMatchRepositoryWithTx(tx)
	u.moveRepo = newMoveRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.statsRepo = newStatsRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after Commit, so it
// can sit in a defer.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Players() interfaces.PlayerRepository {
	return u.playerRepo
}

func (u *unitOfWork) Matches() interfaces.MatchRepository {
	return u.matchRepo
}

func (u *unitOfWork) Moves() interfaces.MoveRepository {
	return u.moveRepo
}

func (u *unitOfWork) Transactions() interfaces.TransactionRepository {
	return u.transactionRepo
}

func (u *unitOfWork) Stats() interfaces.StatsRepository {
	return u.statsRepo
}

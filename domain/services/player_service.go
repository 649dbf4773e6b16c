package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"

	"arena/config"
	"arena/domain/entities"
	"arena/domain/interfaces"
)

type playerService struct {
	playerRepo interfaces.PlayerRepository
	statsRepo  interfaces.StatsRepository
	uowFactory interfaces.UnitOfWorkFactory
}

// NewPlayerService creates a new player service
func NewPlayerService(playerRepo interfaces.PlayerRepository, statsRepo interfaces.StatsRepository, uowFactory interfaces.UnitOfWorkFactory) interfaces.PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		uowFactory: uowFactory,
	}
}

// CreateGuest mints a fresh ephemeral player with the configured
// starting balance. Guests get a new identity per connection; there is
// no reconnection to an earlier one.
func (s *playerService) CreateGuest(ctx context.Context, name string) (*entities.Player, error) {
	player := &entities.Player{
		ID:        uuid.New(),
		Name:      name,
		Balance:   config.Get().StartingBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.WithFields(log.Fields{
		"playerID": player.ID,
		"name":     player.Name,
	}).Info("created guest player")
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id uuid.UUID) (*entities.Player, error) {
	return s.playerRepo.GetByID(ctx, id)
}

func (s *playerService) GetPlayerStats(ctx context.Context, id uuid.UUID) (*entities.PlayerStats, error) {
	stats, err := s.statsRepo.GetByPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &entities.PlayerStats{PlayerID: id}
	}
	return stats, nil
}

// Deposit credits the balance and appends a deposit ledger entry in one
// transaction.
func (s *playerService) Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entities.Player, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("deposit amount must be positive")
	}
	return s.adjustBalance(ctx, id, amount, entities.TransactionTypeDeposit, fmt.Sprintf("Deposit of %s", amount))
}

// Withdraw debits the balance and appends a withdraw ledger entry in
// one transaction. Withdrawing more than the balance is rejected.
func (s *playerService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entities.Player, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("withdraw amount must be positive")
	}
	return s.adjustBalance(ctx, id, amount.Neg(), entities.TransactionTypeWithdraw, fmt.Sprintf("Withdrawal of %s", amount))
}

func (s *playerService) adjustBalance(ctx context.Context, id uuid.UUID, change decimal.Decimal, txType entities.TransactionType, description string) (*entities.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.Players().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, fmt.Errorf("player %s not found", id)
	}

	newBalance := player.CalculateNewBalance(change)
	if newBalance.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("insufficient balance: have %s, need %s", player.Balance, change.Abs())
	}

	if err := uow.Players().UpdateBalance(ctx, id, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := &entities.Transaction{
		PlayerID:    id,
		Type:        txType,
		Amount:      change,
		Description: description,
	}
	if err := uow.Transactions().Record(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit balance change: %w", err)
	}

	player.Balance = newBalance
	return player, nil
}

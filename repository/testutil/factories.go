package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/domain/entities"
)

// CreateTestPlayer creates a test player with default values
func CreateTestPlayer(name string) *entities.Player {
	now := time.Now()
	return &entities.Player{
		ID:        uuid.New(),
		Name:      name,
		Balance:   decimal.NewFromInt(100),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestPlayerWithBalance creates a test player with a specific balance
func CreateTestPlayerWithBalance(name string, balance decimal.Decimal) *entities.Player {
	player := CreateTestPlayer(name)
	player.Balance = balance
	return player
}

// CreateTestMatch creates a waiting test match with sensible defaults
func CreateTestMatch(gameType entities.GameType, playerOneID uuid.UUID) *entities.Match {
	return &entities.Match{
		ID:          uuid.New(),
		GameType:    gameType,
		Stake:       decimal.NewFromInt(10),
		PlayerOneID: playerOneID,
		Status:      entities.MatchStatusWaiting,
		CreatedAt:   time.Now(),
	}
}

// CreateTestMatchWithStake creates a waiting test match with a specific stake
func CreateTestMatchWithStake(gameType entities.GameType, playerOneID uuid.UUID, stake decimal.Decimal) *entities.Match {
	match := CreateTestMatch(gameType, playerOneID)
	match.Stake = stake
	return match
}

// CreateTestTransaction creates a test ledger entry
func CreateTestTransaction(playerID uuid.UUID, txType entities.TransactionType, amount decimal.Decimal) *entities.Transaction {
	return &entities.Transaction{
		PlayerID:    playerID,
		Type:        txType,
		Amount:      amount,
		Description: "test transaction",
		CreatedAt:   time.Now(),
	}
}

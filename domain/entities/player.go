package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Player represents an arena player with their current balance.
// Guests are minted on first connection; the balance is only ever
// mutated by settlement or an explicit deposit/withdraw.
type Player struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// CanAfford checks if the player has sufficient balance for an amount
func (p *Player) CanAfford(amount decimal.Decimal) bool {
	return p.Balance.GreaterThanOrEqual(amount)
}

// ValidateStake checks if a stake amount is valid (positive and affordable)
func (p *Player) ValidateStake(stake decimal.Decimal) error {
	if stake.LessThanOrEqual(decimal.Zero) {
		return errors.New("stake must be positive")
	}
	if !p.CanAfford(stake) {
		return errors.New("insufficient balance")
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (p *Player) CalculateNewBalance(change decimal.Decimal) decimal.Decimal {
	return p.Balance.Add(change)
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of balance change
type TransactionType string

// All transaction types supported by the ledger
const (
	TransactionTypeDeposit   TransactionType = "deposit"
	TransactionTypeWithdraw  TransactionType = "withdraw"
	TransactionTypeStakeWin  TransactionType = "stake_win"
	TransactionTypeStakeLoss TransactionType = "stake_loss"
)

// IsStakeType returns true if the transaction came out of match settlement
func (tt TransactionType) IsStakeType() bool {
	return tt == TransactionTypeStakeWin || tt == TransactionTypeStakeLoss
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// Transaction is one append-only ledger entry for a player. The amount
// is signed: credits positive, debits negative. The player's balance
// field is authoritative; the ledger is the audit trail.
type Transaction struct {
	ID          int64           `db:"id"`
	PlayerID    uuid.UUID       `db:"player_id"`
	Type        TransactionType `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// IsCredit returns true if the transaction increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// IsDebit returns true if the transaction decreased the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount.LessThan(decimal.Zero)
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"

	"arena/domain/entities"
	"arena/domain/interfaces"
)

// winMultiplier is applied to the stake for the winner's credit: the
// doubled pot minus the 10% house fee.
var winMultiplier = decimal.RequireFromString("1.9")

// SettlementService applies the financial outcome of a finished match.
// It runs exactly once per match, on repositories scoped to the
// caller's unit of work, so both sides commit or roll back together.
type SettlementService struct{}

// NewSettlementService creates a new SettlementService
func NewSettlementService() *SettlementService {
	return &SettlementService{}
}

// Settle updates balances, ledger and stats for both participants.
// A draw changes no balance and records no transaction rows; only the
// games-played counters move.
func (s *SettlementService) Settle(ctx context.Context, uow interfaces.UnitOfWork, match *entities.Match) error {
	if match.Status != entities.MatchStatusFinished {
		return fmt.Errorf("cannot settle match %s in status %s", match.ID, match.Status)
	}
	if match.PlayerTwoID == nil {
		return fmt.Errorf("cannot settle unpaired match %s", match.ID)
	}

	for _, playerID := range []uuid.UUID{match.PlayerOneID, *match.PlayerTwoID} {
		if err := s.settleParticipant(ctx, uow, match, playerID); err != nil {
			return fmt.Errorf("failed to settle player %s: %w", playerID, err)
		}
	}

	log.WithFields(log.Fields{
		"matchID": match.ID,
		"winner":  winnerForLog(match),
		"stake":   match.Stake.String(),
	}).Info("match settled")
	return nil
}

func (s *SettlementService) settleParticipant(ctx context.Context, uow interfaces.UnitOfWork, match *entities.Match, playerID uuid.UUID) error {
	player, err := uow.Players().GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return fmt.Errorf("player %s not found", playerID)
	}

	stats, err := uow.Stats().GetByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if stats == nil {
		stats = &entities.PlayerStats{PlayerID: playerID}
	}

	switch {
	case match.WinnerID == nil:
		stats.RecordDraw()

	case *match.WinnerID == playerID:
		payout := match.Stake.Mul(winMultiplier)
		if err := uow.Players().UpdateBalance(ctx, playerID, player.Balance.Add(payout)); err != nil {
			return fmt.Errorf("failed to credit winner: %w", err)
		}
		tx := &entities.Transaction{
			PlayerID:    playerID,
			Type:        entities.TransactionTypeStakeWin,
			Amount:      payout,
			Description: fmt.Sprintf("Won %s match %s (stake %s)", match.GameType, match.ID, match.Stake),
		}
		if err := uow.Transactions().Record(ctx, tx); err != nil {
			return fmt.Errorf("failed to record win transaction: %w", err)
		}
		stats.RecordWin(payout)

	default:
		if err := uow.Players().UpdateBalance(ctx, playerID, player.Balance.Sub(match.Stake)); err != nil {
			return fmt.Errorf("failed to debit loser: %w", err)
		}
		tx := &entities.Transaction{
			PlayerID:    playerID,
			Type:        entities.TransactionTypeStakeLoss,
			Amount:      match.Stake.Neg(),
			Description: fmt.Sprintf("Lost %s match %s (stake %s)", match.GameType, match.ID, match.Stake),
		}
		if err := uow.Transactions().Record(ctx, tx); err != nil {
			return fmt.Errorf("failed to record loss transaction: %w", err)
		}
		stats.RecordLoss()
	}

	if err := uow.Stats().Upsert(ctx, stats); err != nil {
		return fmt.Errorf("failed to upsert stats: %w", err)
	}
	return nil
}

func winnerForLog(match *entities.Match) string {
	if match.WinnerID == nil {
		return "draw"
	}
	return match.WinnerID.String()
}

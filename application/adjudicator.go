// Package application coordinates the per-move adjudication cycle:
// validate, append to the move log, recompute state through the rule
// engine, persist, broadcast, and settle on terminal states.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"arena/domain/entities"
	"arena/domain/events"
	"arena/domain/games"
	"arena/domain/interfaces"
	"arena/domain/services"
)

// Adjudicator is the single authority for a match's move log. Moves for
// one match are serialized through a per-match lock held across the
// whole cycle; different matches proceed fully in parallel.
type Adjudicator struct {
	uowFactory interfaces.UnitOfWorkFactory
	validator  *services.MoveValidator
	settlement *services.SettlementService
	notifier   interfaces.MatchNotifier
	locks      matchLocks
}

// NewAdjudicator creates a new Adjudicator
func NewAdjudicator(uowFactory interfaces.UnitOfWorkFactory, notifier interfaces.MatchNotifier) *Adjudicator {
	return &Adjudicator{
		uowFactory: uowFactory,
		validator:  services.NewMoveValidator(),
		settlement: services.NewSettlementService(),
		notifier:   notifier,
		locks:      matchLocks{locks: map[uuid.UUID]*matchLock{}},
	}
}

type moveOutcome struct {
	match      *entities.Match
	result     *games.Result
	moveNumber int
}

// HandleMove runs the adjudication cycle for one inbound move. Illegal
// moves and collaborator failures are logged and dropped without any
// partial broadcast; the append, recompute, persist and settlement all
// share one transaction, so a failed cycle leaves no trace and a client
// resubmit cannot double-append.
func (a *Adjudicator) HandleMove(ctx context.Context, matchID, authorID uuid.UUID, payload []byte) {
	lock := a.locks.acquire(matchID)
	defer a.locks.release(matchID, lock)

	outcome, err := a.applyMove(ctx, matchID, authorID, payload)
	if err != nil {
		return
	}

	a.notifier.BroadcastToMatch(matchID, events.GameUpdateEvent{
		MatchID:       matchID,
		GameState:     outcome.result.State,
		CurrentPlayer: outcome.result.NextPlayerID,
		MoveNumber:    outcome.moveNumber,
	})

	if outcome.result.IsTerminal {
		a.sendResults(outcome)
	}
}

func (a *Adjudicator) applyMove(ctx context.Context, matchID, authorID uuid.UUID, payload []byte) (*moveOutcome, error) {
	logger := log.WithFields(log.Fields{
		"matchID":  matchID,
		"authorID": authorID,
	})

	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		logger.WithError(err).Error("failed to begin adjudication transaction")
		return nil, err
	}
	defer uow.Rollback()

	match, err := uow.Matches().GetByID(ctx, matchID)
	if err != nil {
		logger.WithError(err).Error("failed to fetch match")
		return nil, err
	}
	if match == nil || match.Status != entities.MatchStatusInProgress {
		logger.Debug("dropping move for absent or inactive match")
		return nil, services.ErrMatchNotInProgress
	}

	history, err := uow.Moves().ListByMatch(ctx, matchID)
	if err != nil {
		logger.WithError(err).Error("failed to load move history")
		return nil, err
	}

	if err := a.validator.Validate(match, history, authorID); err != nil {
		logger.WithError(err).Debug("rejected move")
		return nil, err
	}

	move := &entities.Move{
		MatchID:  matchID,
		PlayerID: authorID,
		Seq:      len(history) + 1,
		Payload:  payload,
	}
	if err := uow.Moves().Create(ctx, move); err != nil {
		logger.WithError(err).Error("failed to append move")
		return nil, err
	}

	engine, err := games.ForType(match.GameType)
	if err != nil {
		logger.WithError(err).Error("no engine for match")
		return nil, err
	}

	// Authoritative state is always rederived from the full log.
	result, err := engine.ComputeState(match, append(history, move))
	if err != nil {
		logger.WithError(err).Error("failed to recompute state")
		return nil, err
	}

	if result.IsTerminal {
		if err := uow.Matches().Finish(ctx, matchID, result.WinnerID, result.State); err != nil {
			logger.WithError(err).Error("failed to finish match")
			return nil, err
		}
		now := time.Now().UTC()
		match.Status = entities.MatchStatusFinished
		match.WinnerID = result.WinnerID
		match.GameState = result.State
		match.FinishedAt = &now

		if err := a.settlement.Settle(ctx, uow, match); err != nil {
			logger.WithError(err).Error("failed to settle match")
			return nil, err
		}
	} else {
		if err := uow.Matches().UpdateState(ctx, matchID, result.State); err != nil {
			logger.WithError(err).Error("failed to persist state")
			return nil, err
		}
		match.GameState = result.State
	}

	if err := uow.Commit(); err != nil {
		logger.WithError(err).Error("failed to commit adjudication cycle")
		return nil, err
	}

	return &moveOutcome{match: match, result: result, moveNumber: move.Seq}, nil
}

// sendResults delivers a personalized result to each participant: the
// same terminal state is a win for one side and a loss for the other.
func (a *Adjudicator) sendResults(outcome *moveOutcome) {
	match := outcome.match
	for _, playerID := range []uuid.UUID{match.PlayerOneID, *match.PlayerTwoID} {
		result := "draw"
		if outcome.result.WinnerID != nil {
			if *outcome.result.WinnerID == playerID {
				result = "win"
			} else {
				result = "lose"
			}
		}
		a.notifier.SendToPlayer(playerID, events.GameResultEvent{
			MatchID:   match.ID,
			Result:    result,
			GameState: outcome.result.State,
			WinnerID:  outcome.result.WinnerID,
		})
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"arena/domain/entities"
	"arena/domain/games"
	"arena/domain/interfaces"
)

// pairAttempts bounds how often a join retries after losing the
// waiting-match compare-and-set race before falling back to creating a
// fresh waiting match.
const pairAttempts = 2

type matchmakingService struct {
	playerRepo interfaces.PlayerRepository
	matchRepo  interfaces.MatchRepository
}

// NewMatchmakingService creates a new matchmaking service
func NewMatchmakingService(playerRepo interfaces.PlayerRepository, matchRepo interfaces.MatchRepository) interfaces.MatchmakingService {
	return &matchmakingService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

// QueueForMatch joins the first available waiting match for the
// requested game type and stake, or leaves a new waiting match behind.
// A player is never paired with themselves: their own waiting matches
// are excluded from the search, so queueing twice yields two distinct
// waiting matches.
func (s *matchmakingService) QueueForMatch(ctx context.Context, playerID uuid.UUID, gameType entities.GameType, stake decimal.Decimal) (*entities.Match, bool, error) {
	if !gameType.IsValid() {
		return nil, false, fmt.Errorf("unsupported game type: %s", gameType)
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, false, fmt.Errorf("player %s not found", playerID)
	}
	if err := player.ValidateStake(stake); err != nil {
		return nil, false, err
	}

	for attempt := 0; attempt < pairAttempts; attempt++ {
		waiting, err := s.matchRepo.FindWaiting(ctx, gameType, stake, playerID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to find waiting match: %w", err)
		}
		if waiting == nil {
			break
		}

		paired, err := s.pair(ctx, waiting, playerID)
		if err != nil {
			return nil, false, err
		}
		if paired != nil {
			return paired, true, nil
		}

		log.WithFields(log.Fields{
			"matchID":  waiting.ID,
			"joinerID": playerID,
		}).Debug("lost pairing race, retrying")
	}

	match := &entities.Match{
		ID:          uuid.New(),
		GameType:    gameType,
		Stake:       stake,
		PlayerOneID: playerID,
		Status:      entities.MatchStatusWaiting,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, false, fmt.Errorf("failed to create waiting match: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":  match.ID,
		"gameType": gameType,
		"stake":    stake.String(),
	}).Info("created waiting match")
	return match, false, nil
}

// pair runs the atomic waiting -> in_progress transition. The initial
// game state is computed against the would-be paired match so engine
// randomness is fixed exactly once, at pairing time.
func (s *matchmakingService) pair(ctx context.Context, waiting *entities.Match, joinerID uuid.UUID) (*entities.Match, error) {
	engine, err := games.ForType(waiting.GameType)
	if err != nil {
		return nil, err
	}

	candidate := *waiting
	candidate.PlayerTwoID = &joinerID
	candidate.Status = entities.MatchStatusInProgress

	initialState, metadata, err := engine.InitialState(&candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute initial state: %w", err)
	}

	won, err := s.matchRepo.Pair(ctx, waiting.ID, joinerID, initialState, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to pair into match %s: %w", waiting.ID, err)
	}
	if !won {
		return nil, nil
	}

	match, err := s.matchRepo.GetByID(ctx, waiting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload paired match: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":  match.ID,
		"gameType": match.GameType,
		"joinerID": joinerID,
	}).Info("paired players into match")
	return match, nil
}

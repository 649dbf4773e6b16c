package testhelpers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"arena/domain/entities"
	"arena/domain/events"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *entities.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) Create(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) FindWaiting(ctx context.Context, gameType entities.GameType, stake decimal.Decimal, excludePlayerID uuid.UUID) (*entities.Match, error) {
	args := m.Called(ctx, gameType, stake, excludePlayerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) Pair(ctx context.Context, matchID, joinerID uuid.UUID, initialState json.RawMessage, metadata map[string]string) (bool, error) {
	args := m.Called(ctx, matchID, joinerID, initialState, metadata)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepository) UpdateState(ctx context.Context, matchID uuid.UUID, state json.RawMessage) error {
	args := m.Called(ctx, matchID, state)
	return args.Error(0)
}

func (m *MockMatchRepository) Finish(ctx context.Context, matchID uuid.UUID, winnerID *uuid.UUID, finalState json.RawMessage) error {
	args := m.Called(ctx, matchID, winnerID, finalState)
	return args.Error(0)
}

// MockMoveRepository is a mock implementation of MoveRepository
type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) Create(ctx context.Context, move *entities.Move) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}

func (m *MockMoveRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Move, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Move), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID) (*entities.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PlayerStats), args.Error(1)
}

func (m *MockStatsRepository) Upsert(ctx context.Context, stats *entities.PlayerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockMatchNotifier is a mock implementation of MatchNotifier
type MockMatchNotifier struct {
	mock.Mock
}

func (m *MockMatchNotifier) BroadcastToMatch(matchID uuid.UUID, event events.Event) {
	m.Called(matchID, event)
}

func (m *MockMatchNotifier) SendToPlayer(playerID uuid.UUID, event events.Event) {
	m.Called(playerID, event)
}

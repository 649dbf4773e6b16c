package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/domain/entities"
	"arena/domain/testhelpers"
)

func finishedMatch(store *testhelpers.MemoryStore) (*entities.Match, uuid.UUID, uuid.UUID) {
	one := uuid.New()
	two := uuid.New()
	store.AddPlayer(&entities.Player{ID: one, Name: "one", Balance: decimal.NewFromInt(100)})
	store.AddPlayer(&entities.Player{ID: two, Name: "two", Balance: decimal.NewFromInt(100)})

	now := time.Now()
	match := &entities.Match{
		ID:          uuid.New(),
		GameType:    entities.GameTypeTicTacToe,
		Stake:       decimal.NewFromInt(10),
		PlayerOneID: one,
		PlayerTwoID: &two,
		Status:      entities.MatchStatusFinished,
		FinishedAt:  &now,
	}
	store.AddMatch(match)
	return match, one, two
}

func TestSettle_WinnerAndLoser(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	match, winner, loser := finishedMatch(store)
	match.WinnerID = &winner
	store.AddMatch(match)

	uow := testhelpers.NewMemoryUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(context.Background()))
	defer uow.Rollback()

	service := NewSettlementService()
	require.NoError(t, service.Settle(context.Background(), uow, match))
	require.NoError(t, uow.Commit())

	// Stake 10: winner credited 19, loser debited 10.
	assert.True(t, store.GetPlayer(winner).Balance.Equal(decimal.NewFromInt(119)),
		"winner balance: %s", store.GetPlayer(winner).Balance)
	assert.True(t, store.GetPlayer(loser).Balance.Equal(decimal.NewFromInt(90)),
		"loser balance: %s", store.GetPlayer(loser).Balance)

	winnerTxs := store.TransactionsFor(winner)
	require.Len(t, winnerTxs, 1)
	assert.Equal(t, entities.TransactionTypeStakeWin, winnerTxs[0].Type)
	assert.True(t, winnerTxs[0].Amount.Equal(decimal.NewFromInt(19)))

	loserTxs := store.TransactionsFor(loser)
	require.Len(t, loserTxs, 1)
	assert.Equal(t, entities.TransactionTypeStakeLoss, loserTxs[0].Type)
	assert.True(t, loserTxs[0].Amount.Equal(decimal.NewFromInt(-10)))

	winnerStats := store.StatsFor(winner)
	require.NotNil(t, winnerStats)
	assert.Equal(t, 1, winnerStats.TotalGames)
	assert.Equal(t, 1, winnerStats.TotalWins)
	assert.True(t, winnerStats.TotalEarnings.Equal(decimal.NewFromInt(19)))

	loserStats := store.StatsFor(loser)
	require.NotNil(t, loserStats)
	assert.Equal(t, 1, loserStats.TotalGames)
	assert.Equal(t, 1, loserStats.TotalLosses)
}

func TestSettle_DrawMovesNoMoney(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	match, one, two := finishedMatch(store)

	uow := testhelpers.NewMemoryUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(context.Background()))
	defer uow.Rollback()

	service := NewSettlementService()
	require.NoError(t, service.Settle(context.Background(), uow, match))
	require.NoError(t, uow.Commit())

	assert.True(t, store.GetPlayer(one).Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, store.GetPlayer(two).Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, store.TransactionsFor(one))
	assert.Empty(t, store.TransactionsFor(two))

	for _, playerID := range []uuid.UUID{one, two} {
		stats := store.StatsFor(playerID)
		require.NotNil(t, stats)
		assert.Equal(t, 1, stats.TotalGames)
		assert.Equal(t, 0, stats.TotalWins)
		assert.Equal(t, 0, stats.TotalLosses)
	}
}

func TestSettle_GuardsAgainstUnfinishedOrUnpairedMatches(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	match, _, _ := finishedMatch(store)

	uow := testhelpers.NewMemoryUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(context.Background()))
	defer uow.Rollback()

	service := NewSettlementService()

	inProgress := *match
	inProgress.Status = entities.MatchStatusInProgress
	assert.Error(t, service.Settle(context.Background(), uow, &inProgress))

	unpaired := *match
	unpaired.PlayerTwoID = nil
	assert.Error(t, service.Settle(context.Background(), uow, &unpaired))
}

package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/domain/entities"
	"arena/repository/testutil"
)

func TestMatchRepository_CreateAndFindWaiting(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	matchRepo := NewMatchRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	creator := testutil.CreateTestPlayer("creator")
	joiner := testutil.CreateTestPlayer("joiner")
	require.NoError(t, playerRepo.Create(ctx, creator))
	require.NoError(t, playerRepo.Create(ctx, joiner))

	match := testutil.CreateTestMatch(entities.GameTypeSticks, creator.ID)
	require.NoError(t, matchRepo.Create(ctx, match))

	t.Run("found for another player", func(t *testing.T) {
		got, err := matchRepo.FindWaiting(ctx, entities.GameTypeSticks, match.Stake, joiner.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, match.ID, got.ID)
		assert.Equal(t, entities.MatchStatusWaiting, got.Status)
	})

	t.Run("own waiting match is excluded", func(t *testing.T) {
		got, err := matchRepo.FindWaiting(ctx, entities.GameTypeSticks, match.Stake, creator.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("stake must match exactly", func(t *testing.T) {
		got, err := matchRepo.FindWaiting(ctx, entities.GameTypeSticks, decimal.NewFromInt(99), joiner.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("game type must match", func(t *testing.T) {
		got, err := matchRepo.FindWaiting(ctx, entities.GameTypeHangman, match.Stake, joiner.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestMatchRepository_PairIsExactlyOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	matchRepo := NewMatchRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	creator := testutil.CreateTestPlayer("creator")
	first := testutil.CreateTestPlayer("first")
	second := testutil.CreateTestPlayer("second")
	for _, p := range []*entities.Player{creator, first, second} {
		require.NoError(t, playerRepo.Create(ctx, p))
	}

	match := testutil.CreateTestMatch(entities.GameTypeTicTacToe, creator.ID)
	require.NoError(t, matchRepo.Create(ctx, match))

	initialState := json.RawMessage(`{"board":["","","","","","","","",""]}`)

	won, err := matchRepo.Pair(ctx, match.ID, first.ID, initialState, map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.True(t, won)

	// The second joiner loses the compare-and-set.
	won, err = matchRepo.Pair(ctx, match.ID, second.ID, initialState, nil)
	require.NoError(t, err)
	assert.False(t, won)

	// The creator can never pair into their own match.
	fresh := testutil.CreateTestMatch(entities.GameTypeTicTacToe, creator.ID)
	require.NoError(t, matchRepo.Create(ctx, fresh))
	won, err = matchRepo.Pair(ctx, fresh.ID, creator.ID, initialState, nil)
	require.NoError(t, err)
	assert.False(t, won)

	got, err := matchRepo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PlayerTwoID)
	assert.Equal(t, first.ID, *got.PlayerTwoID)
	assert.Equal(t, entities.MatchStatusInProgress, got.Status)
	assert.JSONEq(t, string(initialState), string(got.GameState))
	assert.Equal(t, "v", got.Metadata["k"])
}

func TestMatchRepository_StateAndFinishTransitions(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	matchRepo := NewMatchRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	creator := testutil.CreateTestPlayer("creator")
	joiner := testutil.CreateTestPlayer("joiner")
	require.NoError(t, playerRepo.Create(ctx, creator))
	require.NoError(t, playerRepo.Create(ctx, joiner))

	match := testutil.CreateTestMatch(entities.GameTypeSticks, creator.ID)
	require.NoError(t, matchRepo.Create(ctx, match))

	t.Run("waiting match cannot take state updates", func(t *testing.T) {
		err := matchRepo.UpdateState(ctx, match.ID, json.RawMessage(`{"remaining":21}`))
		assert.Error(t, err)
	})

	won, err := matchRepo.Pair(ctx, match.ID, joiner.ID, json.RawMessage(`{"remaining":21}`), nil)
	require.NoError(t, err)
	require.True(t, won)

	t.Run("in-progress state updates persist", func(t *testing.T) {
		require.NoError(t, matchRepo.UpdateState(ctx, match.ID, json.RawMessage(`{"remaining":18}`)))
		got, err := matchRepo.GetByID(ctx, match.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"remaining":18}`, string(got.GameState))
	})

	t.Run("finish is exactly-once", func(t *testing.T) {
		finalState := json.RawMessage(`{"remaining":0}`)
		require.NoError(t, matchRepo.Finish(ctx, match.ID, &joiner.ID, finalState))

		got, err := matchRepo.GetByID(ctx, match.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.MatchStatusFinished, got.Status)
		require.NotNil(t, got.WinnerID)
		assert.Equal(t, joiner.ID, *got.WinnerID)
		assert.NotNil(t, got.FinishedAt)

		// A second finish has no row to transition.
		assert.Error(t, matchRepo.Finish(ctx, match.ID, &creator.ID, finalState))
	})
}

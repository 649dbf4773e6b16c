package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/domain/entities"
	"arena/domain/events"
	"arena/domain/testhelpers"
)

// recordingNotifier captures outbound events per channel for assertions
type recordingNotifier struct {
	mu         sync.Mutex
	broadcasts []events.Event
	direct     map[uuid.UUID][]events.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{direct: map[uuid.UUID][]events.Event{}}
}

func (n *recordingNotifier) BroadcastToMatch(matchID uuid.UUID, event events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, event)
}

func (n *recordingNotifier) SendToPlayer(playerID uuid.UUID, event events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.direct[playerID] = append(n.direct[playerID], event)
}

func (n *recordingNotifier) broadcastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.broadcasts)
}

func (n *recordingNotifier) lastDirect(playerID uuid.UUID) events.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	evts := n.direct[playerID]
	if len(evts) == 0 {
		return nil
	}
	return evts[len(evts)-1]
}

func setupInProgressMatch(t *testing.T, store *testhelpers.MemoryStore, gameType entities.GameType) (*entities.Match, uuid.UUID, uuid.UUID) {
	t.Helper()

	one := uuid.New()
	two := uuid.New()
	store.AddPlayer(&entities.Player{ID: one, Name: "one", Balance: decimal.NewFromInt(100)})
	store.AddPlayer(&entities.Player{ID: two, Name: "two", Balance: decimal.NewFromInt(100)})

	match := &entities.Match{
		ID:          uuid.New(),
		GameType:    gameType,
		Stake:       decimal.NewFromInt(10),
		PlayerOneID: one,
		PlayerTwoID: &two,
		Status:      entities.MatchStatusInProgress,
	}
	store.AddMatch(match)
	return match, one, two
}

func TestHandleMove_FullGameToSettlement(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	match, one, two := setupInProgressMatch(t, store, entities.GameTypeTicTacToe)
	ctx := context.Background()

	// Second joiner opens and claims the top row.
	plays := []struct {
		author  uuid.UUID
		payload string
	}{
		{two, `{"position":0}`},
		{one, `{"position":4}`},
		{two, `{"position":1}`},
		{one, `{"position":5}`},
		{two, `{"position":2}`},
	}
	for _, p := range plays {
		adjudicator.HandleMove(ctx, match.ID, p.author, []byte(p.payload))
	}

	finished := store.GetMatch(match.ID)
	require.NotNil(t, finished)
	assert.Equal(t, entities.MatchStatusFinished, finished.Status)
	require.NotNil(t, finished.WinnerID)
	assert.Equal(t, two, *finished.WinnerID)
	assert.NotNil(t, finished.FinishedAt)

	// The move log is contiguous from 1.
	moves := store.MovesFor(match.ID)
	require.Len(t, moves, 5)
	for i, mv := range moves {
		assert.Equal(t, i+1, mv.Seq)
	}

	// One state broadcast per accepted move.
	assert.Equal(t, 5, notifier.broadcastCount())

	// Personalized results.
	winnerResult, ok := notifier.lastDirect(two).(events.GameResultEvent)
	require.True(t, ok)
	assert.Equal(t, "win", winnerResult.Result)
	loserResult, ok := notifier.lastDirect(one).(events.GameResultEvent)
	require.True(t, ok)
	assert.Equal(t, "lose", loserResult.Result)

	// Settlement applied in the same cycle.
	assert.True(t, store.GetPlayer(two).Balance.Equal(decimal.NewFromInt(119)))
	assert.True(t, store.GetPlayer(one).Balance.Equal(decimal.NewFromInt(90)))
}

func TestHandleMove_DropsOutOfTurnMoves(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	match, one, _ := setupInProgressMatch(t, store, entities.GameTypeTicTacToe)

	// Player one is not the opener; the move leaves no trace at all.
	adjudicator.HandleMove(context.Background(), match.ID, one, []byte(`{"position":0}`))

	assert.Empty(t, store.MovesFor(match.ID))
	assert.Equal(t, 0, notifier.broadcastCount())
	assert.Nil(t, notifier.lastDirect(one))
}

func TestHandleMove_DropsNonParticipants(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	match, _, _ := setupInProgressMatch(t, store, entities.GameTypeSticks)

	adjudicator.HandleMove(context.Background(), match.ID, uuid.New(), []byte(`{"take":1}`))

	assert.Empty(t, store.MovesFor(match.ID))
	assert.Equal(t, 0, notifier.broadcastCount())
}

func TestHandleMove_DropsMovesForUnknownOrFinishedMatches(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	adjudicator.HandleMove(context.Background(), uuid.New(), uuid.New(), []byte(`{"take":1}`))
	assert.Equal(t, 0, notifier.broadcastCount())

	match, _, two := setupInProgressMatch(t, store, entities.GameTypeSticks)
	stored := store.GetMatch(match.ID)
	stored.Status = entities.MatchStatusFinished
	store.AddMatch(stored)

	adjudicator.HandleMove(context.Background(), match.ID, two, []byte(`{"take":1}`))
	assert.Empty(t, store.MovesFor(match.ID))
	assert.Equal(t, 0, notifier.broadcastCount())
}

func TestHandleMove_IllegalPayloadConsumesTurn(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	match, one, two := setupInProgressMatch(t, store, entities.GameTypeTicTacToe)
	ctx := context.Background()

	adjudicator.HandleMove(ctx, match.ID, two, []byte(`{"position":0}`))
	// Occupied cell: the move is accepted into the log as a no-op and
	// the turn passes back.
	adjudicator.HandleMove(ctx, match.ID, one, []byte(`{"position":0}`))

	moves := store.MovesFor(match.ID)
	require.Len(t, moves, 2)
	assert.Equal(t, 2, notifier.broadcastCount())

	stored := store.GetMatch(match.ID)
	var state struct {
		Board         [9]string  `json:"board"`
		CurrentPlayer *uuid.UUID `json:"currentPlayer"`
	}
	require.NoError(t, json.Unmarshal(stored.GameState, &state))
	assert.Equal(t, "X", state.Board[0])
	require.NotNil(t, state.CurrentPlayer)
	assert.Equal(t, two, *state.CurrentPlayer)
}

func TestHandleMove_RockPaperScissorsDrawSettlesWithoutTransfers(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	notifier := newRecordingNotifier()
	adjudicator := NewAdjudicator(testhelpers.NewMemoryUnitOfWorkFactory(store), notifier)

	match, one, two := setupInProgressMatch(t, store, entities.GameTypeRockPaperScissors)
	ctx := context.Background()

	adjudicator.HandleMove(ctx, match.ID, two, []byte(`{"move":"rock"}`))
	adjudicator.HandleMove(ctx, match.ID, one, []byte(`{"move":"rock"}`))

	finished := store.GetMatch(match.ID)
	assert.Equal(t, entities.MatchStatusFinished, finished.Status)
	assert.Nil(t, finished.WinnerID)

	for _, playerID := range []uuid.UUID{one, two} {
		result, ok := notifier.lastDirect(playerID).(events.GameResultEvent)
		require.True(t, ok)
		assert.Equal(t, "draw", result.Result)
		assert.True(t, store.GetPlayer(playerID).Balance.Equal(decimal.NewFromInt(100)))
		assert.Empty(t, store.TransactionsFor(playerID))
	}
}

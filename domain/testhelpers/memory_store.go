package testhelpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/domain/entities"
	"arena/domain/interfaces"
)

// MemoryStore is an in-memory backing store shared by the repositories a
// MemoryUnitOfWork hands out. It implements enough transactional behavior
// for service and adjudicator tests: writes apply immediately, so tests
// that exercise rollback paths should use the mocks instead.
type MemoryStore struct {
	mu           sync.Mutex
	Players      map[uuid.UUID]*entities.Player
	MatchesByID  map[uuid.UUID]*entities.Match
	MovesByMatch map[uuid.UUID][]*entities.Move
	Transactions []*entities.Transaction
	StatsByID    map[uuid.UUID]*entities.PlayerStats

	nextMoveID int64
	nextTxID   int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Players:      make(map[uuid.UUID]*entities.Player),
		MatchesByID:  make(map[uuid.UUID]*entities.Match),
		MovesByMatch: make(map[uuid.UUID][]*entities.Move),
		StatsByID:    make(map[uuid.UUID]*entities.PlayerStats),
	}
}

// AddPlayer seeds a player into the store
func (s *MemoryStore) AddPlayer(player *entities.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Players[player.ID] = clonePlayer(player)
}

// AddMatch seeds a match into the store
func (s *MemoryStore) AddMatch(match *entities.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MatchesByID[match.ID] = cloneMatch(match)
}

// GetPlayer returns the stored player, nil when absent
func (s *MemoryStore) GetPlayer(id uuid.UUID) *entities.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Players[id]; ok {
		return clonePlayer(p)
	}
	return nil
}

// GetMatch returns the stored match, nil when absent
func (s *MemoryStore) GetMatch(id uuid.UUID) *entities.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.MatchesByID[id]; ok {
		return cloneMatch(m)
	}
	return nil
}

// TransactionsFor returns all ledger entries recorded for a player
func (s *MemoryStore) TransactionsFor(playerID uuid.UUID) []*entities.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.Transaction
	for _, tx := range s.Transactions {
		if tx.PlayerID == playerID {
			out = append(out, tx)
		}
	}
	return out
}

// StatsFor returns the stored stats row, nil when absent
func (s *MemoryStore) StatsFor(playerID uuid.UUID) *entities.PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.StatsByID[playerID]; ok {
		cp := *st
		return &cp
	}
	return nil
}

// MovesFor returns the move log for a match ordered by sequence
func (s *MemoryStore) MovesFor(matchID uuid.UUID) []*entities.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := append([]*entities.Move(nil), s.MovesByMatch[matchID]...)
	sort.Slice(moves, func(i, j int) bool { return moves[i].Seq < moves[j].Seq })
	return moves
}

// MemoryUnitOfWorkFactory creates units of work over a shared MemoryStore
type MemoryUnitOfWorkFactory struct {
	Store *MemoryStore
}

// NewMemoryUnitOfWorkFactory creates a factory over the given store
func NewMemoryUnitOfWorkFactory(store *MemoryStore) *MemoryUnitOfWorkFactory {
	return &MemoryUnitOfWorkFactory{Store: store}
}

func (f *MemoryUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &memoryUnitOfWork{store: f.Store}
}

type memoryUnitOfWork struct {
	store *MemoryStore
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memoryUnitOfWork) Commit() error                   { return nil }
func (u *memoryUnitOfWork) Rollback() error                 { return nil }

func (u *memoryUnitOfWork) Players() interfaces.PlayerRepository {
	return &memoryPlayerRepo{store: u.store}
}

func (u *memoryUnitOfWork) Matches() interfaces.MatchRepository {
	return &memoryMatchRepo{store: u.store}
}

func (u *memoryUnitOfWork) Moves() interfaces.MoveRepository {
	return &memoryMoveRepo{store: u.store}
}

func (u *memoryUnitOfWork) Transactions() interfaces.TransactionRepository {
	return &memoryTransactionRepo{store: u.store}
}

func (u *memoryUnitOfWork) Stats() interfaces.StatsRepository {
	return &memoryStatsRepo{store: u.store}
}

type memoryPlayerRepo struct {
	store *MemoryStore
}

func (r *memoryPlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Player, error) {
	return r.store.GetPlayer(id), nil
}

func (r *memoryPlayerRepo) Create(ctx context.Context, player *entities.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.Players[player.ID]; exists {
		return fmt.Errorf("player %s already exists", player.ID)
	}
	now := time.Now()
	player.CreatedAt = now
	player.UpdatedAt = now
	r.store.Players[player.ID] = clonePlayer(player)
	return nil
}

func (r *memoryPlayerRepo) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	player, ok := r.store.Players[id]
	if !ok {
		return fmt.Errorf("player %s not found", id)
	}
	player.Balance = newBalance
	player.UpdatedAt = time.Now()
	return nil
}

type memoryMatchRepo struct {
	store *MemoryStore
}

func (r *memoryMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Match, error) {
	return r.store.GetMatch(id), nil
}

func (r *memoryMatchRepo) Create(ctx context.Context, match *entities.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	match.Status = entities.MatchStatusWaiting
	match.CreatedAt = time.Now()
	r.store.MatchesByID[match.ID] = cloneMatch(match)
	return nil
}

func (r *memoryMatchRepo) FindWaiting(ctx context.Context, gameType entities.GameType, stake decimal.Decimal, excludePlayerID uuid.UUID) (*entities.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var oldest *entities.Match
	for _, m := range r.store.MatchesByID {
		if m.Status != entities.MatchStatusWaiting || m.GameType != gameType {
			continue
		}
		if !m.Stake.Equal(stake) || m.PlayerOneID == excludePlayerID {
			continue
		}
		if oldest == nil || m.CreatedAt.Before(oldest.CreatedAt) {
			oldest = m
		}
	}
	if oldest == nil {
		return nil, nil
	}
	return cloneMatch(oldest), nil
}

func (r *memoryMatchRepo) Pair(ctx context.Context, matchID, joinerID uuid.UUID, initialState json.RawMessage, metadata map[string]string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.MatchesByID[matchID]
	if !ok {
		return false, nil
	}
	if m.Status != entities.MatchStatusWaiting || m.PlayerTwoID != nil || m.PlayerOneID == joinerID {
		return false, nil
	}
	joiner := joinerID
	m.PlayerTwoID = &joiner
	m.Status = entities.MatchStatusInProgress
	m.GameState = append(json.RawMessage(nil), initialState...)
	if metadata == nil {
		metadata = map[string]string{}
	}
	m.Metadata = metadata
	return true, nil
}

func (r *memoryMatchRepo) UpdateState(ctx context.Context, matchID uuid.UUID, state json.RawMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.MatchesByID[matchID]
	if !ok || m.Status != entities.MatchStatusInProgress {
		return fmt.Errorf("match %s is not in progress", matchID)
	}
	m.GameState = append(json.RawMessage(nil), state...)
	return nil
}

func (r *memoryMatchRepo) Finish(ctx context.Context, matchID uuid.UUID, winnerID *uuid.UUID, finalState json.RawMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.MatchesByID[matchID]
	if !ok || m.Status != entities.MatchStatusInProgress {
		return fmt.Errorf("match %s is not in progress", matchID)
	}
	m.Status = entities.MatchStatusFinished
	m.WinnerID = winnerID
	m.GameState = append(json.RawMessage(nil), finalState...)
	now := time.Now()
	m.FinishedAt = &now
	return nil
}

type memoryMoveRepo struct {
	store *MemoryStore
}

func (r *memoryMoveRepo) Create(ctx context.Context, move *entities.Move) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.MovesByMatch[move.MatchID] {
		if existing.Seq == move.Seq {
			return fmt.Errorf("duplicate seq %d for match %s", move.Seq, move.MatchID)
		}
	}
	r.store.nextMoveID++
	move.ID = r.store.nextMoveID
	move.CreatedAt = time.Now()
	cp := *move
	cp.Payload = append(json.RawMessage(nil), move.Payload...)
	r.store.MovesByMatch[move.MatchID] = append(r.store.MovesByMatch[move.MatchID], &cp)
	return nil
}

func (r *memoryMoveRepo) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Move, error) {
	return r.store.MovesFor(matchID), nil
}

type memoryTransactionRepo struct {
	store *MemoryStore
}

func (r *memoryTransactionRepo) Record(ctx context.Context, tx *entities.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextTxID++
	tx.ID = r.store.nextTxID
	tx.CreatedAt = time.Now()
	cp := *tx
	r.store.Transactions = append(r.store.Transactions, &cp)
	return nil
}

func (r *memoryTransactionRepo) ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entities.Transaction
	for i := len(r.store.Transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.Transactions[i].PlayerID == playerID {
			cp := *r.store.Transactions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memoryStatsRepo struct {
	store *MemoryStore
}

func (r *memoryStatsRepo) GetByPlayer(ctx context.Context, playerID uuid.UUID) (*entities.PlayerStats, error) {
	return r.store.StatsFor(playerID), nil
}

func (r *memoryStatsRepo) Upsert(ctx context.Context, stats *entities.PlayerStats) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *stats
	cp.UpdatedAt = time.Now()
	r.store.StatsByID[stats.PlayerID] = &cp
	return nil
}

func clonePlayer(p *entities.Player) *entities.Player {
	cp := *p
	return &cp
}

func cloneMatch(m *entities.Match) *entities.Match {
	cp := *m
	if m.PlayerTwoID != nil {
		id := *m.PlayerTwoID
		cp.PlayerTwoID = &id
	}
	if m.WinnerID != nil {
		id := *m.WinnerID
		cp.WinnerID = &id
	}
	if m.Metadata != nil {
		cp.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			cp.Metadata[k] = v
		}
	}
	cp.GameState = append(json.RawMessage(nil), m.GameState...)
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

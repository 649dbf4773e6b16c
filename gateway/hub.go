// Package gateway owns the connection surface: the WebSocket protocol,
// the HTTP API, and the presence directory mapping players to live
// channels and current matches.
package gateway

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"arena/domain/events"
)

// Hub is the session and presence directory. It is constructed once and
// injected wherever broadcasts are needed; there is no package-level
// connection state.
type Hub struct {
	mu           sync.RWMutex
	clients      map[uuid.UUID]*Client
	playerMatch  map[uuid.UUID]uuid.UUID
	matchPlayers map[uuid.UUID]map[uuid.UUID]struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:      map[uuid.UUID]*Client{},
		playerMatch:  map[uuid.UUID]uuid.UUID{},
		matchPlayers: map[uuid.UUID]map[uuid.UUID]struct{}{},
	}
}

// Register adds a connected client to the directory
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.PlayerID()] = c
}

// Unregister purges every mapping for the client's player. There is no
// reconnection to the same identity; a new connection mints a new one.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	playerID := c.PlayerID()
	if current, ok := h.clients[playerID]; !ok || current != c {
		return
	}
	delete(h.clients, playerID)
	h.removeFromMatchLocked(playerID)

	// Enqueues only happen under the hub lock while the client is in
	// the map, so closing here cannot race a send.
	close(c.send)

	log.WithField("playerID", playerID).Debug("client unregistered")
}

// JoinMatch associates the player with a match for broadcast routing
func (h *Hub) JoinMatch(playerID, matchID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromMatchLocked(playerID)
	h.playerMatch[playerID] = matchID
	if h.matchPlayers[matchID] == nil {
		h.matchPlayers[matchID] = map[uuid.UUID]struct{}{}
	}
	h.matchPlayers[matchID][playerID] = struct{}{}
}

// LeaveMatch drops the player's match association. The match record
// itself is untouched: leaving mid-game does not forfeit.
func (h *Hub) LeaveMatch(playerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromMatchLocked(playerID)
}

// CurrentMatch returns the match the player is associated with
func (h *Hub) CurrentMatch(playerID uuid.UUID) (uuid.UUID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	matchID, ok := h.playerMatch[playerID]
	return matchID, ok
}

// BroadcastToMatch sends an event to every participant associated with
// the match. Delivery is best-effort: players without a live channel
// are skipped silently.
func (h *Hub) BroadcastToMatch(matchID uuid.UUID, event events.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		log.WithError(err).WithField("matchID", matchID).Error("failed to encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for playerID := range h.matchPlayers[matchID] {
		if client, ok := h.clients[playerID]; ok {
			client.enqueue(data)
		}
	}
}

// SendToPlayer sends an event to a single connected player, best-effort
func (h *Hub) SendToPlayer(playerID uuid.UUID, event events.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		log.WithError(err).WithField("playerID", playerID).Error("failed to encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[playerID]; ok {
		client.enqueue(data)
	}
}

func (h *Hub) removeFromMatchLocked(playerID uuid.UUID) {
	matchID, ok := h.playerMatch[playerID]
	if !ok {
		return
	}
	delete(h.playerMatch, playerID)
	if players := h.matchPlayers[matchID]; players != nil {
		delete(players, playerID)
		if len(players) == 0 {
			delete(h.matchPlayers, matchID)
		}
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"arena/domain/entities"
	"arena/domain/events"
	"arena/domain/interfaces"
)

// Server wires the WebSocket endpoint and the HTTP API to the core
// services.
type Server struct {
	hub         *Hub
	players     interfaces.PlayerService
	matchmaker  interfaces.MatchmakingService
	adjudicator interfaces.Adjudicator
	upgrader    websocket.Upgrader
}

// NewServer creates a new gateway server
func NewServer(hub *Hub, players interfaces.PlayerService, matchmaker interfaces.MatchmakingService, adjudicator interfaces.Adjudicator) *Server {
	return &Server{
		hub:         hub,
		players:     players,
		matchmaker:  matchmaker,
		adjudicator: adjudicator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The arena client is a browser app served from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes returns the HTTP handler for the gateway
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/players", s.handleCreatePlayer)
	mux.HandleFunc("GET /api/players/{id}", s.handleGetPlayer)
	mux.HandleFunc("POST /api/players/{id}/deposit", s.handleDeposit)
	mux.HandleFunc("POST /api/players/{id}/withdraw", s.handleWithdraw)
	return mux
}

// handleWS upgrades the connection, mints a guest identity and starts
// the read and write pumps.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	player, err := s.players.CreateGuest(r.Context(), guestName())
	if err != nil {
		log.WithError(err).Error("failed to mint guest player")
		conn.Close()
		return
	}

	client := newClient(s, conn, player)
	s.hub.Register(client)

	go client.writePump()
	go client.readPump()

	s.hub.SendToPlayer(player.ID, events.UserSessionEvent{User: player})
}

// handleMessage dispatches one inbound frame. Protocol errors get a
// toast-style error frame back; illegal moves are dropped downstream
// without a response.
func (s *Server) handleMessage(c *Client, data []byte) {
	ctx := context.Background()

	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.WithError(err).WithField("playerID", c.PlayerID()).Warn("malformed inbound message")
		s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: "malformed message"})
		return
	}

	switch msg.Type {
	case "find_match":
		s.handleFindMatch(ctx, c, msg)

	case "join_match":
		if msg.MatchID == nil {
			s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: "join_match requires matchId"})
			return
		}
		s.hub.JoinMatch(c.PlayerID(), *msg.MatchID)

	case "leave_match":
		s.hub.LeaveMatch(c.PlayerID())

	case "make_move":
		if msg.MatchID == nil || len(msg.Move) == 0 {
			s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: "make_move requires matchId and move"})
			return
		}
		s.adjudicator.HandleMove(ctx, *msg.MatchID, c.PlayerID(), msg.Move)

	default:
		log.WithFields(log.Fields{
			"playerID": c.PlayerID(),
			"type":     msg.Type,
		}).Warn("unknown message type")
		s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *Server) handleFindMatch(ctx context.Context, c *Client, msg inboundMessage) {
	gameType := entities.GameType(msg.GameType)
	if !gameType.IsValid() || msg.Stake == nil {
		s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: "find_match requires a valid gameType and stake"})
		return
	}

	match, paired, err := s.matchmaker.QueueForMatch(ctx, c.PlayerID(), gameType, *msg.Stake)
	if err != nil {
		log.WithError(err).WithField("playerID", c.PlayerID()).Warn("matchmaking failed")
		s.hub.SendToPlayer(c.PlayerID(), events.ErrorEvent{Message: err.Error()})
		return
	}

	s.hub.JoinMatch(c.PlayerID(), match.ID)
	if paired {
		s.hub.BroadcastToMatch(match.ID, events.MatchFoundEvent{
			MatchID:   match.ID,
			GameType:  match.GameType.String(),
			GameState: match.GameState,
		})
	}
}

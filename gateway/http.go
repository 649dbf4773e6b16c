package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func guestName() string {
	return fmt.Sprintf("guest-%s", uuid.NewString()[:8])
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreatePlayer registers a named player over HTTP. The WebSocket
// path mints guests automatically; this exists for clients that want an
// identity before connecting.
func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = guestName()
	}

	player, err := s.players.CreateGuest(r.Context(), req.Name)
	if err != nil {
		log.WithError(err).Error("failed to create player")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"player": player})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	player, err := s.players.GetPlayer(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("failed to get player")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if player == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	stats, err := s.players.GetPlayerStats(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("failed to get player stats")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"player": player,
		"stats":  stats,
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleBalanceChange(w, r, true)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleBalanceChange(w, r, false)
}

func (s *Server) handleBalanceChange(w http.ResponseWriter, r *http.Request, deposit bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var player any
	if deposit {
		player, err = s.players.Deposit(r.Context(), id, req.Amount)
	} else {
		player, err = s.players.Withdraw(r.Context(), id, req.Amount)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"player": player})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

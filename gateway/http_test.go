package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/config"
	"arena/domain/entities"
	"arena/domain/services"
	"arena/domain/testhelpers"
)

func newHTTPTestServer(store *testhelpers.MemoryStore) *Server {
	factory := testhelpers.NewMemoryUnitOfWorkFactory(store)
	uow := factory.Create()
	playerService := services.NewPlayerService(uow.Players(), uow.Stats(), factory)
	matchmaker := services.NewMatchmakingService(uow.Players(), uow.Matches())
	return NewServer(NewHub(), playerService, matchmaker, nil)
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	server := newHTTPTestServer(testhelpers.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleCreatePlayer(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	store := testhelpers.NewMemoryStore()
	server := newHTTPTestServer(store)

	req := httptest.NewRequest(http.MethodPost, "/api/players", strings.NewReader(`{"name":"ada"}`))
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Player struct {
			ID   uuid.UUID `json:"ID"`
			Name string    `json:"Name"`
		} `json:"player"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ada", body.Player.Name)
	assert.NotNil(t, store.GetPlayer(body.Player.ID))
}

func TestHandleGetPlayer(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	server := newHTTPTestServer(store)

	player := &entities.Player{ID: uuid.New(), Name: "p1", Balance: decimal.NewFromInt(42)}
	store.AddPlayer(player)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/players/"+player.ID.String(), nil)
		rec := httptest.NewRecorder()
		server.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Player struct {
				Name string `json:"Name"`
			} `json:"player"`
			Stats struct {
				TotalGames int `json:"TotalGames"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "p1", body.Player.Name)
		assert.Equal(t, 0, body.Stats.TotalGames)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/players/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		server.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/players/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		server.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDepositAndWithdraw(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore()
	server := newHTTPTestServer(store)

	player := &entities.Player{ID: uuid.New(), Name: "p1", Balance: decimal.NewFromInt(100)}
	store.AddPlayer(player)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		server.Routes().ServeHTTP(rec, req)
		return rec
	}

	t.Run("deposit", func(t *testing.T) {
		rec := post("/api/players/"+player.ID.String()+"/deposit", `{"amount":"25"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, store.GetPlayer(player.ID).Balance.Equal(decimal.NewFromInt(125)))
	})

	t.Run("withdraw", func(t *testing.T) {
		rec := post("/api/players/"+player.ID.String()+"/withdraw", `{"amount":"50"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, store.GetPlayer(player.ID).Balance.Equal(decimal.NewFromInt(75)))
	})

	t.Run("overdraft rejected", func(t *testing.T) {
		rec := post("/api/players/"+player.ID.String()+"/withdraw", `{"amount":"1000"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := post("/api/players/"+player.ID.String()+"/deposit", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

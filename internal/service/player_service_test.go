package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage/memory"
	"github.com/mmynk/roster/internal/storage/storetest"
)

// setupTestServer serves a PlayerService backed by a memory store seeded with players.
func setupTestServer(t *testing.T, players []models.Player) (*httptest.Server, *PlayerService) {
	t.Helper()

	store, err := memory.New(players)
	require.NoError(t, err)

	svc := NewPlayerService(store)
	mux := http.NewServeMux()
	svc.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, svc
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestIndex(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp := do(t, http.MethodGet, server.URL+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Equal(t, Greeting, buf.String())
}

func TestHealth(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp := do(t, http.MethodGet, server.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Empty(t, buf.String())
}

func TestUnknownRoute(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp := do(t, http.MethodGet, server.URL+"/teams", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnsupportedMethodOnKnownPath(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/players/1"},
		{http.MethodPost, "/players/1"},
		{http.MethodDelete, "/players"},
		{http.MethodPut, "/players/squadnumber/23"},
		{http.MethodPost, "/health"},
		{http.MethodDelete, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := do(t, tt.method, server.URL+tt.path, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("Allow"))
		})
	}

	resp := do(t, http.MethodGet, server.URL+"/players/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPlayers(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	resp := do(t, http.MethodGet, server.URL+"/players", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	players := decode[[]models.PlayerResponse](t, resp)
	require.Len(t, players, 3)
	for i, want := range storetest.Seed() {
		assert.Equal(t, models.NewPlayerResponse(want), players[i])
	}
}

func TestListPlayersEmpty(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	resp := do(t, http.MethodGet, server.URL+"/players", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.JSONEq(t, `[]`, buf.String())
}

func TestResponseFieldNames(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	resp := do(t, http.MethodGet, server.URL+"/players/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fields := decode[map[string]any](t, resp)
	for _, key := range []string{
		"id", "firstName", "middleName", "lastName", "dateOfBirth", "squadNumber",
		"position", "abbrPosition", "team", "league", "starting11",
	} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 11)
}

func TestGetPlayer(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	t.Run("found", func(t *testing.T) {
		resp := do(t, http.MethodGet, server.URL+"/players/2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		player := decode[models.PlayerResponse](t, resp)
		assert.Equal(t, models.NewPlayerResponse(storetest.Seed()[1]), player)
	})

	t.Run("not found", func(t *testing.T) {
		resp := do(t, http.MethodGet, server.URL+"/players/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decode[errorResponse](t, resp)
		assert.Equal(t, "player not found", body.Error)
	})

	t.Run("id not a number", func(t *testing.T) {
		for _, id := range []string{"abc", "-1", "4294967296", "1.5"} {
			resp := do(t, http.MethodGet, server.URL+"/players/"+id, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, "id %q", id)
		}
	})
}

func TestGetPlayerBySquadNumber(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	resp := do(t, http.MethodGet, server.URL+"/players/squadnumber/13", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	player := decode[models.PlayerResponse](t, resp)
	assert.Equal(t, uint32(3), player.ID)
	assert.Equal(t, "Romero", player.LastName)

	resp = do(t, http.MethodGet, server.URL+"/players/squadnumber/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, server.URL+"/players/squadnumber/ten", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePlayer(t *testing.T) {
	server, svc := setupTestServer(t, nil)

	resp := do(t, http.MethodPost, server.URL+"/players", storetest.Request(7))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.PlayerResponse](t, resp)
	assert.Equal(t, uint32(1), created.ID)
	assert.Equal(t, uint32(7), created.SquadNumber)
	assert.Equal(t, "Messi", created.LastName)

	resp = do(t, http.MethodPost, server.URL+"/players", storetest.Request(7))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodGet, server.URL+"/players", nil)
	assert.Len(t, decode[[]models.PlayerResponse](t, resp), 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(svc.PlayersCollector()))
}

func TestCreatePlayerIgnoresClientID(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	payload := map[string]any{
		"id":           1,
		"firstName":    "Enzo",
		"middleName":   "Jeremías",
		"lastName":     "Fernández",
		"dateOfBirth":  "2001-01-17T00:00:00.000Z",
		"squadNumber":  24,
		"position":     "Central Midfield",
		"abbrPosition": "CM",
		"team":         "Chelsea FC",
		"league":       "Premier League",
		"starting11":   true,
	}
	resp := do(t, http.MethodPost, server.URL+"/players", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[models.PlayerResponse](t, resp)
	assert.Equal(t, uint32(4), created.ID)

	resp = do(t, http.MethodGet, server.URL+"/players/1", nil)
	player := decode[models.PlayerResponse](t, resp)
	assert.Equal(t, "Martínez", player.LastName)
}

func TestCreatePlayerIgnoresCaseFoldedKeys(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	body := strings.TrimSuffix(requestJSON(t), "}") + `,"SQUADNUMBER":99,"LastName":"Ronaldo"}`
	resp := do(t, http.MethodPost, server.URL+"/players", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[models.PlayerResponse](t, resp)
	assert.Equal(t, uint32(10), created.SquadNumber)
	assert.Equal(t, "Messi", created.LastName)

	resp = do(t, http.MethodGet, server.URL+"/players/squadnumber/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePlayerAfterDelete(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed()[:2])

	resp := do(t, http.MethodDelete, server.URL+"/players/2", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, server.URL+"/players", storetest.Request(10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, uint32(2), decode[models.PlayerResponse](t, resp).ID)
}

func TestCreatePlayerBadPayload(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"malformed json", `{"firstName":`, http.StatusBadRequest},
		{"array", `[]`, http.StatusUnprocessableEntity},
		{"null", `null`, http.StatusUnprocessableEntity},
		{"missing fields", `{"firstName":"Julián","lastName":"Álvarez","squadNumber":9}`, http.StatusUnprocessableEntity},
		{"negative squad number", strings.Replace(requestJSON(t), `"squadNumber":10`, `"squadNumber":-10`, 1), http.StatusUnprocessableEntity},
		{"wrong type", strings.Replace(requestJSON(t), `"starting11":true`, `"starting11":"yes"`, 1), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, server.URL+"/players", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, decode[errorResponse](t, resp).Error)
		})
	}

	resp := do(t, http.MethodGet, server.URL+"/players", nil)
	assert.Len(t, decode[[]models.PlayerResponse](t, resp), 3)
}

func TestCreatePlayerBodyTooLarge(t *testing.T) {
	store, err := memory.New(nil)
	require.NoError(t, err)
	svc := NewPlayerService(store)

	body := `{"firstName":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	svc.CreatePlayer(rec, httptest.NewRequest(http.MethodPost, "/players", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	n, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

// requestJSON renders storetest.Request(10) as JSON.
func requestJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(storetest.Request(10))
	require.NoError(t, err)
	return string(data)
}

func TestUpdatePlayer(t *testing.T) {
	server, _ := setupTestServer(t, storetest.Seed())

	t.Run("change only team", func(t *testing.T) {
		orig := storetest.Seed()[0]
		req := models.PlayerRequest{
			FirstName:    orig.FirstName,
			MiddleName:   orig.MiddleName,
			LastName:     orig.LastName,
			DateOfBirth:  orig.DateOfBirth,
			SquadNumber:  orig.SquadNumber,
			Position:     orig.Position,
			AbbrPosition: orig.AbbrPosition,
			Team:         "Club Atlético Independiente",
			League:       orig.League,
			Starting11:   orig.Starting11,
		}

		resp := do(t, http.MethodPut, server.URL+"/players/1", req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		want := models.NewPlayerResponse(orig)
		want.Team = "Club Atlético Independiente"
		assert.Equal(t, want, decode[models.PlayerResponse](t, resp))

		resp = do(t, http.MethodGet, server.URL+"/players/1", nil)
		assert.Equal(t, want, decode[models.PlayerResponse](t, resp))
	})

	t.Run("squad number held by another player", func(t *testing.T) {
		resp := do(t, http.MethodPut, server.URL+"/players/1", storetest.Request(26))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := do(t, http.MethodPut, server.URL+"/players/999", storetest.Request(99))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := do(t, http.MethodPut, server.URL+"/players/1", `{"team":"x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("order unchanged", func(t *testing.T) {
		resp := do(t, http.MethodGet, server.URL+"/players", nil)
		players := decode[[]models.PlayerResponse](t, resp)
		require.Len(t, players, 3)
		assert.Equal(t, []uint32{1, 2, 3}, []uint32{players[0].ID, players[1].ID, players[2].ID})
	})
}

func TestDeletePlayer(t *testing.T) {
	server, svc := setupTestServer(t, storetest.Seed())

	resp := do(t, http.MethodDelete, server.URL+"/players/2", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, server.URL+"/players/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, server.URL+"/players", nil)
	players := decode[[]models.PlayerResponse](t, resp)
	require.Len(t, players, 2)
	assert.Equal(t, uint32(1), players[0].ID)
	assert.Equal(t, uint32(3), players[1].ID)

	assert.Equal(t, float64(2), testutil.ToFloat64(svc.PlayersCollector()))
}

func TestConcurrentCreatesSameSquadNumber(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	const clients = 12
	statuses := make(chan int, clients)
	var wg sync.WaitGroup
	for range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, _ := json.Marshal(storetest.Request(5))
			resp, err := http.Post(server.URL+"/players", "application/json", bytes.NewReader(data))
			if err != nil {
				t.Errorf("POST failed: %v", err)
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	counts := map[int]int{}
	for status := range statuses {
		counts[status]++
	}
	assert.Equal(t, 1, counts[http.StatusCreated])
	assert.Equal(t, clients-1, counts[http.StatusConflict])
}

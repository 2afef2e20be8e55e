// Package service implements the roster HTTP API on top of a storage.Store.
package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage"
)

// Greeting is the plain text body served at "/".
const Greeting = "Sample REST API with Go"

// PlayerService serves the player endpoints.
type PlayerService struct {
	store storage.Store
}

// NewPlayerService creates a new PlayerService with the given storage backend.
func NewPlayerService(store storage.Store) *PlayerService {
	return &PlayerService{store: store}
}

// Register mounts every route on mux.
func (s *PlayerService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /health", s.Health)
	mux.HandleFunc("GET /players", s.ListPlayers)
	mux.HandleFunc("GET /players/{id}", s.GetPlayer)
	mux.HandleFunc("GET /players/squadnumber/{squadNumber}", s.GetPlayerBySquadNumber)
	mux.HandleFunc("POST /players", s.CreatePlayer)
	mux.HandleFunc("PUT /players/{id}", s.UpdatePlayer)
	mux.HandleFunc("DELETE /players/{id}", s.DeletePlayer)

	// Method-less patterns catch verbs the routes above do not serve, so a
	// known path answers 404 like an unknown one instead of ServeMux's 405.
	for _, path := range []string{"/{$}", "/health", "/players", "/players/{id}", "/players/squadnumber/{squadNumber}"} {
		mux.HandleFunc(path, notFound)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// Index answers with a plain text greeting.
func (s *PlayerService) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(Greeting))
}

// Health reports liveness with an empty 200.
func (s *PlayerService) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListPlayers returns every player in store order.
func (s *PlayerService) ListPlayers(w http.ResponseWriter, r *http.Request) {
	slog.Info("ListPlayers request received")

	players, err := s.store.List(r.Context())
	if err != nil {
		slog.Error("ListPlayers failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}

	slog.Info("ListPlayers successful", "count", len(players))
	writeJSON(w, http.StatusOK, models.NewPlayerResponses(players))
}

// GetPlayer returns one player by id.
func (s *PlayerService) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint32(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	slog.Info("GetPlayer request received", "player_id", id)

	player, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.storeError(w, "GetPlayer", err, "player_id", id)
		return
	}

	writeJSON(w, http.StatusOK, models.NewPlayerResponse(player))
}

// GetPlayerBySquadNumber returns the player wearing a squad number.
func (s *PlayerService) GetPlayerBySquadNumber(w http.ResponseWriter, r *http.Request) {
	squadNumber, ok := pathUint32(r, "squadNumber")
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	slog.Info("GetPlayerBySquadNumber request received", "squad_number", squadNumber)

	player, err := s.store.GetBySquadNumber(r.Context(), squadNumber)
	if err != nil {
		s.storeError(w, "GetPlayerBySquadNumber", err, "squad_number", squadNumber)
		return
	}

	writeJSON(w, http.StatusOK, models.NewPlayerResponse(player))
}

// CreatePlayer adds a player and answers 201 with the stored record.
func (s *PlayerService) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	req, status, err := decodePlayerRequest(w, r)
	if err != nil {
		slog.Warn("CreatePlayer rejected payload", "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}
	slog.Info("CreatePlayer request received",
		"squad_number", req.SquadNumber,
		"last_name", req.LastName,
	)

	player, err := s.store.Create(r.Context(), req)
	if err != nil {
		s.storeError(w, "CreatePlayer", err, "squad_number", req.SquadNumber)
		return
	}

	slog.Info("Player created", "player_id", player.ID, "squad_number", player.SquadNumber)
	writeJSON(w, http.StatusCreated, models.NewPlayerResponse(player))
}

// UpdatePlayer replaces a player's fields, keeping its id.
func (s *PlayerService) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint32(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	req, status, err := decodePlayerRequest(w, r)
	if err != nil {
		slog.Warn("UpdatePlayer rejected payload", "player_id", id, "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}
	slog.Info("UpdatePlayer request received", "player_id", id, "squad_number", req.SquadNumber)

	player, err := s.store.Update(r.Context(), id, req)
	if err != nil {
		s.storeError(w, "UpdatePlayer", err, "player_id", id, "squad_number", req.SquadNumber)
		return
	}

	slog.Info("Player updated", "player_id", player.ID)
	writeJSON(w, http.StatusOK, models.NewPlayerResponse(player))
}

// DeletePlayer removes a player and answers 204.
func (s *PlayerService) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint32(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	slog.Info("DeletePlayer request received", "player_id", id)

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, "DeletePlayer", err, "player_id", id)
		return
	}

	slog.Info("Player deleted", "player_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps a store failure to its status code and logs it.
func (s *PlayerService) storeError(w http.ResponseWriter, op string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		slog.Warn(op+" not found", attrs...)
		writeError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, storage.ErrConflict):
		slog.Warn(op+" conflict", attrs...)
		writeError(w, http.StatusConflict, "squad number already taken")
	default:
		slog.Error(op+" failed", attrs...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

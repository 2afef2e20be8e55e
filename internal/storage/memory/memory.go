// Package memory provides the in-process implementation of storage.Store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps players in a slice guarded by a single mutex. Reads take the
// same exclusive lock as writes.
type Store struct {
	mu      sync.Mutex
	players []models.Player
}

// New creates a Store seeded with players, keeping their order.
// It fails if the seed repeats an id or a squad number.
func New(players []models.Player) (*Store, error) {
	if err := storage.CheckUnique(players); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &Store{players: slices.Clone(players)}, nil
}

// Close is a no-op; the roster lives only as long as the process.
func (s *Store) Close() error {
	return nil
}

// List returns a snapshot of all players in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Player, len(s.players))
	copy(out, s.players)
	return out, nil
}

// GetByID retrieves a player by id.
func (s *Store) GetByID(ctx context.Context, id uint32) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return models.Player{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return s.players[i], nil
}

// GetBySquadNumber retrieves a player by squad number.
func (s *Store) GetBySquadNumber(ctx context.Context, squadNumber uint32) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.players, func(p models.Player) bool {
		return p.SquadNumber == squadNumber
	})
	if i < 0 {
		return models.Player{}, fmt.Errorf("squad number %d: %w", squadNumber, storage.ErrNotFound)
	}
	return s.players[i], nil
}

// Create appends a new player after checking its squad number is free.
func (s *Store) Create(ctx context.Context, req models.PlayerRequest) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.squadNumberTaken(req.SquadNumber, -1) {
		return models.Player{}, fmt.Errorf("squad number %d: %w", req.SquadNumber, storage.ErrConflict)
	}

	id, err := storage.NextID(s.players)
	if err != nil {
		return models.Player{}, err
	}

	player := req.ToPlayer(id)
	s.players = append(s.players, player)
	return player, nil
}

// Update overwrites an existing player in place.
func (s *Store) Update(ctx context.Context, id uint32, req models.PlayerRequest) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return models.Player{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	if s.squadNumberTaken(req.SquadNumber, i) {
		return models.Player{}, fmt.Errorf("squad number %d: %w", req.SquadNumber, storage.ErrConflict)
	}

	s.players[i] = req.ToPlayer(id)
	return s.players[i], nil
}

// Delete removes a player, keeping the order of the rest.
func (s *Store) Delete(ctx context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	s.players = slices.Delete(s.players, i, i+1)
	return nil
}

// Count returns the number of players.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.players), nil
}

// indexByID must be called with s.mu held.
func (s *Store) indexByID(id uint32) int {
	return slices.IndexFunc(s.players, func(p models.Player) bool {
		return p.ID == id
	})
}

// squadNumberTaken reports whether a player other than the one at index skip
// wears squadNumber. Must be called with s.mu held.
func (s *Store) squadNumberTaken(squadNumber uint32, skip int) bool {
	for i, p := range s.players {
		if i != skip && p.SquadNumber == squadNumber {
			return true
		}
	}
	return false
}

// Package storage provides abstractions for the player roster store.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/roster/internal/models"
)

var (
	// ErrNotFound is returned when no player matches the requested id or squad number.
	ErrNotFound = errors.New("player not found")

	// ErrConflict is returned when a write would give two players the same squad number.
	ErrConflict = errors.New("squad number already taken")

	// ErrIDExhausted is returned when the highest stored id leaves no room for another.
	ErrIDExhausted = errors.New("player id space exhausted")
)

// Store defines the roster operations used by the HTTP layer.
//
// Every operation runs under one exclusive lock around the whole collection,
// so a create's squad number check, id allocation and append are observed as a
// single step by all other callers. Players are returned by value; callers never
// hold references into the store.
type Store interface {
	// List returns a copy of every player in insertion order.
	List(ctx context.Context) ([]models.Player, error)

	// GetByID returns the player with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id uint32) (models.Player, error)

	// GetBySquadNumber returns the player wearing the given number, or ErrNotFound.
	GetBySquadNumber(ctx context.Context, squadNumber uint32) (models.Player, error)

	// Create appends a new player with a freshly allocated id.
	// Returns ErrConflict if the squad number is already taken; nothing is stored then.
	Create(ctx context.Context, req models.PlayerRequest) (models.Player, error)

	// Update replaces every field but the id of an existing player, keeping its position.
	// Returns ErrNotFound for an unknown id and ErrConflict if another player
	// already holds the requested squad number.
	Update(ctx context.Context, id uint32, req models.PlayerRequest) (models.Player, error)

	// Delete removes the player with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id uint32) error

	// Count returns the number of stored players.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

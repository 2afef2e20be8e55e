// Package storetest holds the behavioral tests every storage.Store backend must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage"
)

// Factory builds a fresh store seeded with players.
type Factory func(t *testing.T, players []models.Player) storage.Store

// Seed returns a small roster with ids 1..3 and distinct squad numbers.
func Seed() []models.Player {
	return []models.Player{
		{
			ID: 1, FirstName: "Damián", MiddleName: "Emiliano", LastName: "Martínez",
			DateOfBirth: "1992-09-02T00:00:00.000Z", SquadNumber: 23,
			Position: "Goalkeeper", AbbrPosition: "GK",
			Team: "Aston Villa FC", League: "Premier League", Starting11: true,
		},
		{
			ID: 2, FirstName: "Nahuel", LastName: "Molina",
			DateOfBirth: "1998-04-06T00:00:00.000Z", SquadNumber: 26,
			Position: "Right-Back", AbbrPosition: "RB",
			Team: "Atlético Madrid", League: "La Liga", Starting11: true,
		},
		{
			ID: 3, FirstName: "Cristian", MiddleName: "Gabriel", LastName: "Romero",
			DateOfBirth: "1998-04-27T00:00:00.000Z", SquadNumber: 13,
			Position: "Centre-Back", AbbrPosition: "CB",
			Team: "Tottenham Hotspur", League: "Premier League", Starting11: true,
		},
	}
}

// Request returns a complete create/update payload for the given squad number.
func Request(squadNumber uint32) models.PlayerRequest {
	return models.PlayerRequest{
		FirstName:    "Lionel",
		MiddleName:   "Andrés",
		LastName:     "Messi",
		DateOfBirth:  "1987-06-24T00:00:00.000Z",
		SquadNumber:  squadNumber,
		Position:     "Right Winger",
		AbbrPosition: "RW",
		Team:         "Inter Miami CF",
		League:       "Major League Soccer",
		Starting11:   true,
	}
}

// Run exercises the storage.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("List returns seed in insertion order", func(t *testing.T) {
		seed := []models.Player{{ID: 9, SquadNumber: 1}, {ID: 2, SquadNumber: 2}, {ID: 5, SquadNumber: 3}}
		store := newStore(t, seed)

		players, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		assertIDs(t, players, 9, 2, 5)
	})

	t.Run("List on empty store returns empty slice", func(t *testing.T) {
		store := newStore(t, nil)

		players, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if players == nil || len(players) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", players)
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		store := newStore(t, Seed())

		p, err := store.GetByID(ctx, 2)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if p != Seed()[1] {
			t.Errorf("got %+v, want %+v", p, Seed()[1])
		}

		_, err = store.GetByID(ctx, 999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetBySquadNumber", func(t *testing.T) {
		store := newStore(t, Seed())

		p, err := store.GetBySquadNumber(ctx, 13)
		if err != nil {
			t.Fatalf("GetBySquadNumber failed: %v", err)
		}
		if p.ID != 3 {
			t.Errorf("ID: got %d, want 3", p.ID)
		}

		_, err = store.GetBySquadNumber(ctx, 99)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Create on empty store assigns id 1", func(t *testing.T) {
		store := newStore(t, nil)

		p, err := store.Create(ctx, Request(7))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if p.ID != 1 {
			t.Errorf("ID: got %d, want 1", p.ID)
		}
		if p.SquadNumber != 7 || p.LastName != "Messi" {
			t.Errorf("fields not stored: %+v", p)
		}

		_, err = store.Create(ctx, Request(7))
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		assertCount(t, store, 1)
	})

	t.Run("Create appends with max plus one", func(t *testing.T) {
		store := newStore(t, []models.Player{{ID: 4, SquadNumber: 1}, {ID: 2, SquadNumber: 2}})

		p, err := store.Create(ctx, Request(10))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if p.ID != 5 {
			t.Errorf("ID: got %d, want 5", p.ID)
		}

		players, _ := store.List(ctx)
		assertIDs(t, players, 4, 2, 5)
	})

	t.Run("Create after deleting a lower id keeps counting from max", func(t *testing.T) {
		store := newStore(t, []models.Player{{ID: 1, SquadNumber: 1}, {ID: 2, SquadNumber: 2}})

		if err := store.Delete(ctx, 1); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		p, err := store.Create(ctx, Request(3))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if p.ID != 3 {
			t.Errorf("ID: got %d, want 3", p.ID)
		}
	})

	t.Run("Create after deleting the maximum reuses its id", func(t *testing.T) {
		store := newStore(t, []models.Player{{ID: 1, SquadNumber: 1}, {ID: 2, SquadNumber: 2}})

		if err := store.Delete(ctx, 2); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		p, err := store.Create(ctx, Request(3))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if p.ID != 2 {
			t.Errorf("freed maximum should be reused: got %d, want 2", p.ID)
		}
	})

	t.Run("canceled context does not abort operations", func(t *testing.T) {
		store := newStore(t, Seed())

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := store.List(canceled); err != nil {
			t.Errorf("List: %v", err)
		}
		if _, err := store.GetByID(canceled, 1); err != nil {
			t.Errorf("GetByID: %v", err)
		}
		if _, err := store.GetBySquadNumber(canceled, 23); err != nil {
			t.Errorf("GetBySquadNumber: %v", err)
		}
		p, err := store.Create(canceled, Request(10))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := store.Update(canceled, p.ID, Request(11)); err != nil {
			t.Errorf("Update: %v", err)
		}
		if err := store.Delete(canceled, p.ID); err != nil {
			t.Errorf("Delete: %v", err)
		}
		if _, err := store.Count(canceled); err != nil {
			t.Errorf("Count: %v", err)
		}
	})

	t.Run("Update changes fields in place", func(t *testing.T) {
		store := newStore(t, Seed())

		orig := Seed()[1]
		req := models.PlayerRequest{
			FirstName:    orig.FirstName,
			MiddleName:   orig.MiddleName,
			LastName:     orig.LastName,
			DateOfBirth:  orig.DateOfBirth,
			SquadNumber:  orig.SquadNumber,
			Position:     orig.Position,
			AbbrPosition: orig.AbbrPosition,
			Team:         "Club Atlético River Plate",
			League:       orig.League,
			Starting11:   orig.Starting11,
		}

		p, err := store.Update(ctx, 2, req)
		if err != nil {
			t.Fatalf("Update with own squad number failed: %v", err)
		}
		want := orig
		want.Team = "Club Atlético River Plate"
		if p != want {
			t.Errorf("got %+v, want %+v", p, want)
		}

		players, _ := store.List(ctx)
		assertIDs(t, players, 1, 2, 3)
		if players[1] != want {
			t.Errorf("stored: got %+v, want %+v", players[1], want)
		}
		if players[0] != Seed()[0] || players[2] != Seed()[2] {
			t.Error("untouched players changed")
		}
	})

	t.Run("Update to a free squad number", func(t *testing.T) {
		store := newStore(t, Seed())

		p, err := store.Update(ctx, 1, Request(1))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if p.ID != 1 || p.SquadNumber != 1 {
			t.Errorf("got %+v", p)
		}

		// The old number is free again.
		if _, err := store.GetBySquadNumber(ctx, 23); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for released number, got %v", err)
		}
	})

	t.Run("Update conflict leaves store unchanged", func(t *testing.T) {
		store := newStore(t, Seed())

		_, err := store.Update(ctx, 1, Request(26))
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		p, _ := store.GetByID(ctx, 1)
		if p != Seed()[0] {
			t.Errorf("player changed after conflict: %+v", p)
		}
	})

	t.Run("Update unknown id", func(t *testing.T) {
		store := newStore(t, Seed())

		_, err := store.Update(ctx, 999, Request(99))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update unknown id with taken squad number is not found", func(t *testing.T) {
		store := newStore(t, Seed())

		_, err := store.Update(ctx, 999, Request(23))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete twice", func(t *testing.T) {
		store := newStore(t, Seed())

		if err := store.Delete(ctx, 2); err != nil {
			t.Fatalf("first Delete failed: %v", err)
		}
		if err := store.Delete(ctx, 2); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second Delete, got %v", err)
		}

		players, _ := store.List(ctx)
		assertIDs(t, players, 1, 3)
	})

	t.Run("Count", func(t *testing.T) {
		store := newStore(t, Seed())
		assertCount(t, store, 3)

		if _, err := store.Create(ctx, Request(10)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		assertCount(t, store, 4)
	})

	t.Run("concurrent creates with one squad number", func(t *testing.T) {
		store := newStore(t, nil)

		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			created   int
			conflicts int
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Create(ctx, Request(10))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errors.Is(err, storage.ErrConflict):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if created != 1 || conflicts != workers-1 {
			t.Errorf("created=%d conflicts=%d, want 1 and %d", created, conflicts, workers-1)
		}
		assertCount(t, store, 1)
	})

	t.Run("concurrent creates keep ids and squad numbers unique", func(t *testing.T) {
		store := newStore(t, Seed())

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Two goroutines compete for each squad number.
				if _, err := store.Create(ctx, Request(uint32(100+i/2))); err != nil && !errors.Is(err, storage.ErrConflict) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		players, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(players) != 13 {
			t.Errorf("expected 13 players, got %d", len(players))
		}
		if err := storage.CheckUnique(players); err != nil {
			t.Errorf("uniqueness violated: %v", err)
		}
	})
}

func assertIDs(t *testing.T, players []models.Player, want ...uint32) {
	t.Helper()
	got := make([]uint32, len(players))
	for i, p := range players {
		got[i] = p.ID
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ids: got %v, want %v", got, want)
	}
}

func assertCount(t *testing.T, store storage.Store, want int) {
	t.Helper()
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != want {
		t.Errorf("Count: got %d, want %d", n, want)
	}
}

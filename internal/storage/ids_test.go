package storage

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/roster/internal/models"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		ids     []uint32
		want    uint32
		wantErr error
	}{
		{name: "empty store starts at one", ids: nil, want: 1},
		{name: "single player", ids: []uint32{1}, want: 2},
		{name: "max plus one", ids: []uint32{1, 2}, want: 3},
		{name: "unordered ids", ids: []uint32{5, 2, 9, 3}, want: 10},
		{name: "gaps are not reused", ids: []uint32{1, 3}, want: 4},
		{name: "exhausted", ids: []uint32{1, math.MaxUint32}, wantErr: ErrIDExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := make([]models.Player, len(tt.ids))
			for i, id := range tt.ids {
				players[i] = models.Player{ID: id, SquadNumber: uint32(i)}
			}

			got, err := NextID(players)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NextID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextID() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckUnique(t *testing.T) {
	t.Run("distinct players pass", func(t *testing.T) {
		players := []models.Player{
			{ID: 1, SquadNumber: 23},
			{ID: 2, SquadNumber: 26},
			{ID: 3, SquadNumber: 13},
		}
		if err := CheckUnique(players); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		players := []models.Player{
			{ID: 1, SquadNumber: 23},
			{ID: 1, SquadNumber: 26},
		}
		if err := CheckUnique(players); err == nil {
			t.Error("expected error for duplicate id")
		}
	})

	t.Run("duplicate squad number", func(t *testing.T) {
		players := []models.Player{
			{ID: 1, SquadNumber: 10},
			{ID: 2, SquadNumber: 10},
		}
		err := CheckUnique(players)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if err := CheckUnique(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

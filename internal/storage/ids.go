package storage

import (
	"fmt"
	"math"

	"github.com/mmynk/roster/internal/models"
)

// NextID returns one more than the highest id among players, or 1 when there
// are none. It is derived from the current contents on every call, so an id
// freed by deleting the current maximum can be handed out again.
func NextID(players []models.Player) (uint32, error) {
	var highest uint32
	for _, p := range players {
		highest = max(highest, p.ID)
	}
	if highest == math.MaxUint32 {
		return 0, ErrIDExhausted
	}
	return highest + 1, nil
}

// CheckUnique reports the first duplicate id or squad number in players.
func CheckUnique(players []models.Player) error {
	ids := make(map[uint32]struct{}, len(players))
	squadNumbers := make(map[uint32]struct{}, len(players))
	for _, p := range players {
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("duplicate player id %d", p.ID)
		}
		ids[p.ID] = struct{}{}

		if _, dup := squadNumbers[p.SquadNumber]; dup {
			return fmt.Errorf("duplicate squad number %d (player %d): %w", p.SquadNumber, p.ID, ErrConflict)
		}
		squadNumbers[p.SquadNumber] = struct{}{}
	}
	return nil
}

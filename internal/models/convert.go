package models

// ToPlayer builds the stored record for this request under the given ID.
func (r PlayerRequest) ToPlayer(id uint32) Player {
	return Player{
		ID:           id,
		FirstName:    r.FirstName,
		MiddleName:   r.MiddleName,
		LastName:     r.LastName,
		DateOfBirth:  r.DateOfBirth,
		SquadNumber:  r.SquadNumber,
		Position:     r.Position,
		AbbrPosition: r.AbbrPosition,
		Team:         r.Team,
		League:       r.League,
		Starting11:   r.Starting11,
	}
}

// NewPlayerResponse projects a stored player onto the response shape.
func NewPlayerResponse(p Player) PlayerResponse {
	return PlayerResponse{
		ID:           p.ID,
		FirstName:    p.FirstName,
		MiddleName:   p.MiddleName,
		LastName:     p.LastName,
		DateOfBirth:  p.DateOfBirth,
		SquadNumber:  p.SquadNumber,
		Position:     p.Position,
		AbbrPosition: p.AbbrPosition,
		Team:         p.Team,
		League:       p.League,
		Starting11:   p.Starting11,
	}
}

// NewPlayerResponses projects a list of players, keeping their order.
func NewPlayerResponses(players []Player) []PlayerResponse {
	resp := make([]PlayerResponse, len(players))
	for i, p := range players {
		resp[i] = NewPlayerResponse(p)
	}
	return resp
}

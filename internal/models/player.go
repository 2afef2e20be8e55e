package models

// Player is a stored roster record.
type Player struct {
	// ID is assigned by the store and never changes afterwards.
	ID uint32 `json:"id"`

	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`

	// DateOfBirth is kept as the client sent it; it is not parsed.
	DateOfBirth string `json:"dateOfBirth"`

	// SquadNumber is unique across the whole store, not per team.
	SquadNumber uint32 `json:"squadNumber"`

	Position     string `json:"position"`
	AbbrPosition string `json:"abbrPosition"`
	Team         string `json:"team"`
	League       string `json:"league"`
	Starting11   bool   `json:"starting11"`
}

// PlayerRequest is the payload for creating or updating a player.
type PlayerRequest struct {
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	SquadNumber  uint32 `json:"squadNumber"`
	Position     string `json:"position"`
	AbbrPosition string `json:"abbrPosition"`
	Team         string `json:"team"`
	League       string `json:"league"`
	Starting11   bool   `json:"starting11"`
}

// PlayerResponse is the player payload returned by the API.
type PlayerResponse struct {
	ID           uint32 `json:"id"`
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	SquadNumber  uint32 `json:"squadNumber"`
	Position     string `json:"position"`
	AbbrPosition string `json:"abbrPosition"`
	Team         string `json:"team"`
	League       string `json:"league"`
	Starting11   bool   `json:"starting11"`
}

// Package models defines the player roster domain models.
//
// A player exists in three shapes:
//   - PlayerRequest: the client payload for create and update. It has no ID,
//     so clients can never choose or change a player's identifier.
//   - Player: the record held by the store, ID included.
//   - PlayerResponse: the payload returned to clients, ID included.
//
// The conversion functions in convert.go are field-for-field projections
// between these shapes and carry no business rules.
package models

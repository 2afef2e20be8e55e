// Package sqlite provides a storage.Store backed by a private in-memory SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/roster/internal/models"
	"github.com/mmynk/roster/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const playerColumns = `id, first_name, middle_name, last_name, date_of_birth, squad_number,
	position, abbr_position, team, league, starting11`

// SQLiteStore implements storage.Store on an in-memory SQLite database.
// The database disappears when the store is closed.
type SQLiteStore struct {
	// mu serializes whole operations, reads included, matching the memory store.
	mu sync.Mutex
	db *sql.DB
}

// New creates an empty in-memory database, runs migrations and inserts players in order.
func New(players []models.Player) (*SQLiteStore, error) {
	if err := storage.CheckUnique(players); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.seed(context.Background(), players); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) seed(ctx context.Context, players []models.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range players {
		if err := insertPlayer(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection, discarding all players.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all players ordered by insertion.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Player, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+playerColumns+" FROM players ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// GetByID retrieves a player by id.
func (s *SQLiteStore) GetByID(ctx context.Context, id uint32) (models.Player, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id = ?", int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetBySquadNumber retrieves a player by squad number.
func (s *SQLiteStore) GetBySquadNumber(ctx context.Context, squadNumber uint32) (models.Player, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE squad_number = ?", int64(squadNumber)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("squad number %d: %w", squadNumber, storage.ErrNotFound)
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// Create inserts a new player with id MAX(id)+1.
func (s *SQLiteStore) Create(ctx context.Context, req models.PlayerRequest) (models.Player, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := squadNumberTaken(ctx, tx, req.SquadNumber, nil)
	if err != nil {
		return models.Player{}, err
	}
	if taken {
		return models.Player{}, fmt.Errorf("squad number %d: %w", req.SquadNumber, storage.ErrConflict)
	}

	var highest int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM players").Scan(&highest); err != nil {
		return models.Player{}, fmt.Errorf("failed to read max id: %w", err)
	}
	if highest >= math.MaxUint32 {
		return models.Player{}, storage.ErrIDExhausted
	}

	player := req.ToPlayer(uint32(highest) + 1)
	if err := insertPlayer(ctx, tx, player); err != nil {
		return models.Player{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Player{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return player, nil
}

// Update overwrites every column but id and seq.
func (s *SQLiteStore) Update(ctx context.Context, id uint32, req models.PlayerRequest) (models.Player, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM players WHERE id = ?", int64(id)).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to get player: %w", err)
	}

	taken, err := squadNumberTaken(ctx, tx, req.SquadNumber, &id)
	if err != nil {
		return models.Player{}, err
	}
	if taken {
		return models.Player{}, fmt.Errorf("squad number %d: %w", req.SquadNumber, storage.ErrConflict)
	}

	player := req.ToPlayer(id)
	_, err = tx.ExecContext(ctx, `
		UPDATE players SET first_name = ?, middle_name = ?, last_name = ?, date_of_birth = ?,
			squad_number = ?, position = ?, abbr_position = ?, team = ?, league = ?, starting11 = ?
		WHERE id = ?`,
		player.FirstName, player.MiddleName, player.LastName, player.DateOfBirth,
		int64(player.SquadNumber), player.Position, player.AbbrPosition, player.Team, player.League,
		boolToInt(player.Starting11), int64(player.ID),
	)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to update player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Player{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return player, nil
}

// Delete removes a player by id.
func (s *SQLiteStore) Delete(ctx context.Context, id uint32) error {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// Count returns the number of players.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	ctx = detach(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

// detach drops cancellation and deadlines: a store operation runs to
// completion even if the request that issued it goes away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.DateOfBirth,
		&p.SquadNumber,
		&p.Position,
		&p.AbbrPosition,
		&p.Team,
		&p.League,
		&p.Starting11,
	)
	return p, err
}

func insertPlayer(ctx context.Context, tx *sql.Tx, p models.Player) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO players ("+playerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		int64(p.ID), p.FirstName, p.MiddleName, p.LastName, p.DateOfBirth, int64(p.SquadNumber),
		p.Position, p.AbbrPosition, p.Team, p.League, boolToInt(p.Starting11),
	)
	if err != nil {
		return fmt.Errorf("failed to insert player %d: %w", p.ID, err)
	}
	return nil
}

// squadNumberTaken reports whether a player other than except wears squadNumber.
func squadNumberTaken(ctx context.Context, tx *sql.Tx, squadNumber uint32, except *uint32) (bool, error) {
	query := "SELECT COUNT(*) FROM players WHERE squad_number = ?"
	args := []any{int64(squadNumber)}
	if except != nil {
		query += " AND id <> ?"
		args = append(args, int64(*except))
	}

	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check squad number: %w", err)
	}
	return n > 0, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

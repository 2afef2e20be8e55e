package sqlite

import "database/sql"

// schema keeps insertion order in seq; updates never touch it, so a player
// keeps its position in List.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id INTEGER NOT NULL UNIQUE,
    first_name TEXT NOT NULL,
    middle_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    date_of_birth TEXT NOT NULL,
    squad_number INTEGER NOT NULL UNIQUE,
    position TEXT NOT NULL,
    abbr_position TEXT NOT NULL,
    team TEXT NOT NULL,
    league TEXT NOT NULL,
    starting11 INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite history database and ensures the schema
// exists. Pass ":memory:" for an in-memory database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	return execAll(db, []string{
		`CREATE TABLE IF NOT EXISTS rating_actions (
			record_key TEXT PRIMARY KEY,
			agency TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			date_text TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			published_at TEXT,
			action TEXT NOT NULL,
			old_rating TEXT,
			new_rating TEXT,
			evidence TEXT NOT NULL,
			run_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_actions_agency ON rating_actions(agency)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_actions_action ON rating_actions(action)`,
		`CREATE INDEX IF NOT EXISTS idx_rating_actions_published ON rating_actions(published_at)`,
	})
}

func execAll(db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}

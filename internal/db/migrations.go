package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Statements must stay idempotent — they run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS lists (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL COLLATE NOCASE,
		location   TEXT     NOT NULL COLLATE NOCASE,
		price      INTEGER  NOT NULL DEFAULT 0,
		currency   TEXT     NOT NULL DEFAULT 'EUR',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lists_name_location
		ON lists (name, location)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		list_id    INTEGER  NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		price      INTEGER  NOT NULL,
		area       INTEGER,
		bedrooms   INTEGER,
		phone      TEXT,
		owner_name TEXT,
		source_url TEXT,
		raw_json   TEXT     NOT NULL DEFAULT '{}',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	// Source URLs are the dedup key for re-ingestion. Rows without a URL
	// are exempt — they are always treated as new on upload.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_list_source_url
		ON properties (list_id, source_url) WHERE source_url IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS property_agent_state (
		user_id     INTEGER  NOT NULL,
		property_id INTEGER  NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		state       TEXT     NOT NULL DEFAULT 'new',
		comment     TEXT     NOT NULL DEFAULT '',
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS list_requests (
		id              INTEGER  PRIMARY KEY AUTOINCREMENT,
		user_id         INTEGER  NOT NULL,
		location        TEXT     NOT NULL,
		notes           TEXT     NOT NULL DEFAULT '',
		status          TEXT     NOT NULL DEFAULT 'pending',
		created_list_id INTEGER  REFERENCES lists(id),
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		email      TEXT     NOT NULL UNIQUE,
		name       TEXT     NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		list_id    INTEGER  NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		status     TEXT     NOT NULL DEFAULT 'active',
		period_end DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, list_id)
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		name         TEXT     NOT NULL,
		key_prefix   TEXT     NOT NULL,
		key_hash     TEXT     NOT NULL UNIQUE,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_used_at DATETIME
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

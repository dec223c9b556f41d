package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/alphauniversity/portal/core"
)

// Open connects to the configured Postgres database.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", conf.DatabaseURL)
}

// EnsureSchema creates the users table if it does not exist yet. Schema
// migrations proper are out of scope; this is a bootstrap convenience for
// fresh databases.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id            SERIAL PRIMARY KEY,
  username      VARCHAR(80) UNIQUE NOT NULL,
  email         VARCHAR(120) UNIQUE NOT NULL,
  password_hash BYTEA NOT NULL,
  is_active     BOOLEAN NOT NULL DEFAULT TRUE,
  created_at    TIMESTAMPTZ NOT NULL,
  updated_at    TIMESTAMPTZ NOT NULL
)
`)
	return err
}

package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema initializes the SQLite solve-cache schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS service_area_cache (
        origin TEXT NOT NULL,
        range_seconds INTEGER NOT NULL,
        profile TEXT NOT NULL,
        polygons TEXT NOT NULL,
        PRIMARY KEY (origin, range_seconds, profile)
    );
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create service_area_cache: %w", err)
	}

	return nil
}

// InitSchemaPostgres initializes the Postgres solve-cache schema (dbtool).
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS service_area_cache (
        origin TEXT NOT NULL,
        range_seconds INTEGER NOT NULL,
        profile TEXT NOT NULL,
        polygons TEXT NOT NULL,
        PRIMARY KEY (origin, range_seconds, profile)
    );
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create service_area_cache: %w", err)
	}

	return nil
}

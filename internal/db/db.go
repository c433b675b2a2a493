// Package db provides an optional sqlite mirror of the observation log. The
// CSV day files remain the durability contract; the database exists so
// observations can be queried with SQL without parsing CSV.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/presence.report/internal/logbook"
)

type DB struct {
	*sql.DB
}

// New opens (creating if needed) the sqlite database at path and applies any
// pending schema migrations.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db := &DB{d}
	if err := db.MigrateUp(); err != nil {
		d.Close()
		return nil, err
	}
	return db, nil
}

// RecordObservation inserts one observation row.
func (db *DB) RecordObservation(rec logbook.Record) error {
	_, err := db.Exec(
		`INSERT INTO observations (timestamp_utc, timestamp_local, presence_raw, presence_debounced, raw)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.TimestampUTC(), rec.TimestampLocal(), rec.Raw, rec.Debounced, rec.Line,
	)
	if err != nil {
		return fmt.Errorf("failed to record observation: %w", err)
	}
	return nil
}

// CountObservations returns the number of stored observations.
func (db *DB) CountObservations() (int64, error) {
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

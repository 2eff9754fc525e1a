package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion tracks the on-disk candidate table layout.
const SchemaVersion = 1

func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if err := createCandidatesTable(db); err != nil {
		return fmt.Errorf("creating candidates table: %w", err)
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}
	return nil
}

func createCandidatesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candidates (
			structural_id TEXT PRIMARY KEY NOT NULL,
			sequence_name TEXT NOT NULL,
			contig TEXT,
			class_id INTEGER NOT NULL,
			class_name TEXT NOT NULL,
			subclass TEXT,
			motif_id TEXT,
			start INTEGER NOT NULL,
			"end" INTEGER NOT NULL,
			length INTEGER NOT NULL,
			matched_seq TEXT NOT NULL,
			pattern_name TEXT,
			raw_score REAL,
			normalized_score REAL,
			scoring_method TEXT,
			gc_content REAL,
			overlap_classes TEXT
		)
	`)
	return err
}

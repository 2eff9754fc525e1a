// Package store persists candidates to a SQLite-backed run database,
// keyed by a structural ID so merging two runs is an INSERT OR IGNORE
// away from full deduplication.
package store

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nbdfinder/engine/internal/types"
)

// StructuralID derives a stable, content-addressed identifier for a
// candidate: sequence, class, exact span, and matched sequence together
// determine identity, so re-running the pipeline on unchanged input
// always produces the same IDs.
func StructuralID(c *types.Candidate) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d\x00%s", c.SequenceName, c.ClassID, c.Start, c.End, c.MatchedSeq)
	return hex.EncodeToString(h.Sum(nil))
}

// Store wraps a SQLite database of candidates for a run.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Add(c *types.Candidate) error {
	overlap := ""
	for _, name := range c.OverlapClassNames() {
		if overlap != "" {
			overlap += ","
		}
		overlap += name
	}
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO candidates
		(structural_id, sequence_name, contig, class_id, class_name, subclass, motif_id,
		 start, "end", length, matched_seq, pattern_name, raw_score, normalized_score,
		 scoring_method, gc_content, overlap_classes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, StructuralID(c), c.SequenceName, c.Contig, int(c.ClassID), c.ClassName, c.Subclass, c.MotifID,
		c.Start, c.End, c.Length, string(c.MatchedSeq), c.PatternName, c.RawScore, c.NormalizedScore,
		c.ScoringMethod, c.GCContent, overlap)
	return err
}

func (s *Store) AddAll(cands []*types.Candidate) (inserted int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO candidates
		(structural_id, sequence_name, contig, class_id, class_name, subclass, motif_id,
		 start, "end", length, matched_seq, pattern_name, raw_score, normalized_score,
		 scoring_method, gc_content, overlap_classes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cands {
		overlap := ""
		for _, name := range c.OverlapClassNames() {
			if overlap != "" {
				overlap += ","
			}
			overlap += name
		}
		res, err := stmt.Exec(StructuralID(c), c.SequenceName, c.Contig, int(c.ClassID), c.ClassName, c.Subclass, c.MotifID,
			c.Start, c.End, c.Length, string(c.MatchedSeq), c.PatternName, c.RawScore, c.NormalizedScore,
			c.ScoringMethod, c.GCContent, overlap)
		if err != nil {
			return inserted, fmt.Errorf("store: insert candidate: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("store: commit: %w", err)
	}
	return inserted, nil
}

func (s *Store) All() ([]*types.Candidate, error) {
	rows, err := s.db.Query(`
		SELECT sequence_name, contig, class_id, class_name, subclass, motif_id,
		       start, "end", length, matched_seq, pattern_name, raw_score, normalized_score,
		       scoring_method, gc_content
		FROM candidates ORDER BY sequence_name, start
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query all: %w", err)
	}
	defer rows.Close()

	var out []*types.Candidate
	for rows.Next() {
		c := &types.Candidate{OverlapClasses: make(map[string]bool)}
		var classID int
		var matched string
		if err := rows.Scan(&c.SequenceName, &c.Contig, &classID, &c.ClassName, &c.Subclass, &c.MotifID,
			&c.Start, &c.End, &c.Length, &matched, &c.PatternName, &c.RawScore, &c.NormalizedScore,
			&c.ScoringMethod, &c.GCContent); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		c.ClassID = types.ClassID(classID)
		c.MatchedSeq = []byte(matched)
		out = append(out, c)
	}
	return out, rows.Err()
}

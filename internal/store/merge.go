package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MergeConfig configures combining multiple run databases.
type MergeConfig struct {
	SourcePaths []string
	DestPath    string
}

// MergeStats tracks merge results.
type MergeStats struct {
	SourcesProcessed int
	CandidatesMerged int
}

// Merge combines candidates from every source database into dest,
// deduplicating on structural_id via INSERT OR IGNORE.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("store: no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("store: destination path is required")
	}

	destDB, err := sql.Open("sqlite", cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("store: opening destination: %w", err)
	}
	defer destDB.Close()
	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		n, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("store: merging from %s: %w", sourcePath, err)
		}
		stats.CandidatesMerged += n
		stats.SourcesProcessed++
	}
	return stats, nil
}

func mergeFrom(destDB *sql.DB, sourcePath string) (int, error) {
	sourceDB, err := sql.Open("sqlite", sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source: %w", err)
	}
	defer sourceDB.Close()

	rows, err := sourceDB.Query(`
		SELECT structural_id, sequence_name, contig, class_id, class_name, subclass, motif_id,
		       start, "end", length, matched_seq, pattern_name, raw_score, normalized_score,
		       scoring_method, gc_content, overlap_classes
		FROM candidates
	`)
	if err != nil {
		return 0, fmt.Errorf("querying source candidates: %w", err)
	}
	defer rows.Close()

	tx, err := destDB.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
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
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for rows.Next() {
		var structuralID, seqName, contig, className, subclass, motifID, matched, patternName, scoringMethod, overlapClasses string
		var classID int
		var start, end, length int64
		var rawScore, normScore, gc float64
		if err := rows.Scan(&structuralID, &seqName, &contig, &classID, &className, &subclass, &motifID,
			&start, &end, &length, &matched, &patternName, &rawScore, &normScore,
			&scoringMethod, &gc, &overlapClasses); err != nil {
			return count, fmt.Errorf("scanning source row: %w", err)
		}
		res, err := stmt.Exec(structuralID, seqName, contig, classID, className, subclass, motifID,
			start, end, length, matched, patternName, rawScore, normScore, scoringMethod, gc, overlapClasses)
		if err != nil {
			return count, fmt.Errorf("inserting candidate: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	if err := rows.Err(); err != nil {
		return count, err
	}
	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}

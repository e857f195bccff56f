package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// MergeDatabase copies every scan of sourceDB, with its duplicate files and
// comparison errors, into destDB. Scan ids are shifted past the largest id
// already in the destination.
func MergeDatabase(ctx context.Context, sourceDB, destDB string) error {
	source, err := sql.Open("sqlite3", sourceDB)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer source.Close()

	dest, err := SetupDatabase(ctx, destDB)
	if err != nil {
		return fmt.Errorf("failed to open destination database: %w", err)
	}
	defer dest.Close()

	var maxScanID int64
	err = dest.QueryRowContext(ctx, "SELECT COALESCE(MAX(scan_id), 0) FROM scans").Scan(&maxScanID)
	if err != nil {
		return fmt.Errorf("failed to get max scan_id: %w", err)
	}

	destTx, err := dest.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer destTx.Rollback()

	rows, err := source.QueryContext(ctx, `
		SELECT scan_id, directory, created_at, elapsed_ms, file_count,
			group_count, duplicate_bytes, error_count
		FROM scans
		ORDER BY scan_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query source scans: %w", err)
	}
	defer rows.Close()

	scanStmt, err := destTx.PrepareContext(ctx, `
		INSERT INTO scans (
			scan_id, directory, created_at, elapsed_ms, file_count,
			group_count, duplicate_bytes, error_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare scan statement: %w", err)
	}
	defer scanStmt.Close()

	scanIDMap := make(map[int64]int64)
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := scanSummary(rows)
		if err != nil {
			return err
		}

		newID := maxScanID + s.ScanID
		scanIDMap[s.ScanID] = newID

		if _, err := scanStmt.ExecContext(ctx, newID, s.Directory, s.CreatedAt, s.ElapsedMS,
			s.FileCount, s.GroupCount, s.DuplicateBytes, s.ErrorCount); err != nil {
			return fmt.Errorf("failed to insert scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read source scans: %w", err)
	}

	for oldID, newID := range scanIDMap {
		if err := copyScanRows(ctx, source, destTx, oldID, newID); err != nil {
			return err
		}
	}

	if err := destTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int("scans", len(scanIDMap)).
		Str("source", sourceDB).
		Str("dest", destDB).
		Msg("merged scan history")
	return nil
}

func copyScanRows(ctx context.Context, source *sql.DB, destTx *sql.Tx, oldID, newID int64) error {
	files, err := source.QueryContext(ctx, `
		SELECT group_index, position, file_name, size_bytes
		FROM duplicate_files WHERE scan_id = ?
	`, oldID)
	if err != nil {
		return fmt.Errorf("failed to query duplicate files: %w", err)
	}
	defer files.Close()

	for files.Next() {
		var (
			group, pos int
			name       string
			size       int64
		)
		if err := files.Scan(&group, &pos, &name, &size); err != nil {
			return fmt.Errorf("failed to scan duplicate file: %w", err)
		}
		if _, err := destTx.ExecContext(ctx, `
			INSERT INTO duplicate_files (scan_id, group_index, position, file_name, size_bytes)
			VALUES (?, ?, ?, ?, ?)
		`, newID, group, pos, name, size); err != nil {
			return fmt.Errorf("failed to insert duplicate file: %w", err)
		}
	}
	if err := files.Err(); err != nil {
		return err
	}

	errs, err := source.QueryContext(ctx, `
		SELECT first_name, second_name, message
		FROM comparison_errors WHERE scan_id = ?
	`, oldID)
	if err != nil {
		return fmt.Errorf("failed to query comparison errors: %w", err)
	}
	defer errs.Close()

	for errs.Next() {
		var first, second, message string
		if err := errs.Scan(&first, &second, &message); err != nil {
			return fmt.Errorf("failed to scan comparison error: %w", err)
		}
		if _, err := destTx.ExecContext(ctx, `
			INSERT INTO comparison_errors (scan_id, first_name, second_name, message)
			VALUES (?, ?, ?, ?)
		`, newID, first, second, message); err != nil {
			return fmt.Errorf("failed to insert comparison error: %w", err)
		}
	}
	return errs.Err()
}

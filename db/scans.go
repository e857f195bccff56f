package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nrtkbb/dupscan/models"
)

// ErrScanNotFound is returned when a scan id has no row.
var ErrScanNotFound = errors.New("scan not found")

// ScanSummary is one row of the scans table.
type ScanSummary struct {
	ScanID         int64
	Directory      string
	CreatedAt      int64
	ElapsedMS      int64
	FileCount      int
	GroupCount     int
	DuplicateBytes int64
	ErrorCount     int
}

// StoredError is a skipped pair as kept in the history.
type StoredError struct {
	First   string
	Second  string
	Message string
}

// SaveReport stores a finished scan with its groups and skipped pairs in
// one transaction and returns the new scan id.
func SaveReport(ctx context.Context, db *sql.DB, report *models.Report) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO scans (
			directory, created_at, elapsed_ms, file_count,
			group_count, duplicate_bytes, error_count
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		report.Directory,
		report.StartedAt.Unix(),
		report.Elapsed.Milliseconds(),
		report.FileCount,
		len(report.Groups),
		int64(report.DuplicateBytes()),
		len(report.Errors),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	fileStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO duplicate_files (scan_id, group_index, position, file_name, size_bytes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file statement: %w", err)
	}
	defer fileStmt.Close()

	for gi, g := range report.Groups {
		for pos, f := range g.Files {
			if _, err := fileStmt.ExecContext(ctx, scanID, gi, pos, f.Name, int64(f.Size)); err != nil {
				return 0, fmt.Errorf("failed to insert duplicate file %s: %w", f.Name, err)
			}
		}
	}

	errStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comparison_errors (scan_id, first_name, second_name, message)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare error statement: %w", err)
	}
	defer errStmt.Close()

	for _, pe := range report.Errors {
		if _, err := errStmt.ExecContext(ctx, scanID, pe.First, pe.Second, pe.Err.Error()); err != nil {
			return 0, fmt.Errorf("failed to insert comparison error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return scanID, nil
}

func CountScans(ctx context.Context, db *sql.DB) (int, error) {
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return total, nil
}

// ListScans returns scans newest first.
func ListScans(ctx context.Context, db *sql.DB, limit, offset int) ([]ScanSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT scan_id, directory, created_at, elapsed_ms, file_count,
			group_count, duplicate_bytes, error_count
		FROM scans
		ORDER BY created_at DESC, scan_id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	scans := []ScanSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

func GetScan(ctx context.Context, db *sql.DB, scanID int64) (ScanSummary, error) {
	row := db.QueryRowContext(ctx, `
		SELECT scan_id, directory, created_at, elapsed_ms, file_count,
			group_count, duplicate_bytes, error_count
		FROM scans
		WHERE scan_id = ?
	`, scanID)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScanSummary{}, fmt.Errorf("%w: %d", ErrScanNotFound, scanID)
	}
	return s, err
}

// GetGroups rebuilds the stored groups of a scan in report order.
func GetGroups(ctx context.Context, db *sql.DB, scanID int64) ([]models.Group, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT group_index, file_name, size_bytes
		FROM duplicate_files
		WHERE scan_id = ?
		ORDER BY group_index, position
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate files: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	current := -1
	for rows.Next() {
		var (
			index int
			name  string
			size  int64
		)
		if err := rows.Scan(&index, &name, &size); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate file: %w", err)
		}
		if index != current {
			groups = append(groups, models.Group{})
			current = index
		}
		last := &groups[len(groups)-1]
		last.Files = append(last.Files, models.FileRecord{Name: name, Size: uint64(size)})
	}
	return groups, rows.Err()
}

func GetErrors(ctx context.Context, db *sql.DB, scanID int64) ([]StoredError, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT first_name, second_name, message
		FROM comparison_errors
		WHERE scan_id = ?
		ORDER BY rowid
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison errors: %w", err)
	}
	defer rows.Close()

	stored := []StoredError{}
	for rows.Next() {
		var e StoredError
		if err := rows.Scan(&e.First, &e.Second, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan comparison error: %w", err)
		}
		stored = append(stored, e)
	}
	return stored, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (ScanSummary, error) {
	var s ScanSummary
	err := row.Scan(
		&s.ScanID,
		&s.Directory,
		&s.CreatedAt,
		&s.ElapsedMS,
		&s.FileCount,
		&s.GroupCount,
		&s.DuplicateBytes,
		&s.ErrorCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan row: %w", err)
	}
	return s, nil
}

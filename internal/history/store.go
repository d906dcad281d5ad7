// Package history keeps a SQLite ledger of generated documents. The ledger
// answers "what was sent, where, under which control number" and feeds issued
// control numbers back to the generator so they are not reused across runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ginjaninja78/edi834-generator/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// Disabled is the history_db value that turns the ledger off.
const Disabled = "off"

// Entry is one generated document.
type Entry struct {
	ID            string    `json:"id"`
	InputPath     string    `json:"inputPath"`
	OutputPath    string    `json:"outputPath"`
	ControlNumber int       `json:"controlNumber"`
	SegmentCount  int       `json:"segmentCount"`
	MemberCount   int       `json:"memberCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store is the SQLite-backed ledger. Safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database file and its directory if needed and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	// One writer at a time; sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry for a generated document and returns it.
func (s *Store) Record(ctx context.Context, inputPath string, summary types.Summary) (*Entry, error) {
	e := &Entry{
		ID:            uuid.NewString(),
		InputPath:     inputPath,
		OutputPath:    summary.OutputPath,
		ControlNumber: summary.ControlNumber,
		SegmentCount:  summary.SegmentCount,
		MemberCount:   summary.MemberCount,
		CreatedAt:     s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (id, input_path, output_path, control_number, segment_count, member_count, created_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.InputPath, e.OutputPath, e.ControlNumber, e.SegmentCount, e.MemberCount,
		e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, output_path, control_number, segment_count, member_count, created_at_ns
		 FROM generations ORDER BY created_at_ns DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.InputPath, &e.OutputPath, &e.ControlNumber,
			&e.SegmentCount, &e.MemberCount, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ControlNumbers returns every control number already issued.
func (s *Store) ControlNumbers(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT control_number FROM generations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query control numbers: %w", err)
	}
	defer rows.Close()

	var nums []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

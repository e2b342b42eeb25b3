// Package snapshot persists generated profiles in SQLite so the history
// of a student's style can be listed and compared.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suykerbuyk/vibe-profile/internal/profile"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when a lookup finds nothing.
var ErrNoSnapshot = errors.New("no profile snapshot")

// Snapshot is one saved profile.
type Snapshot struct {
	ID      string          `json:"id" yaml:"id"`
	SavedAt time.Time       `json:"saved_at" yaml:"saved_at"`
	Profile profile.Profile `json:"profile" yaml:"profile"`
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the database at dsn, creating parent directories for
// file paths, and migrates the schema.
func Open(dsn string) (*Store, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock overrides the clock used for saved_at.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Save stores p and returns the new snapshot id.
func (s *Store) Save(ctx context.Context, p profile.Profile) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO profiles
		(id, saved_at, generated_at, total_tasks, total_events, learning_style, style_confidence,
		 dominant_category, ai_dependency, adoption_rate, code_edit_ratio, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		s.now().UTC().Format(time.RFC3339Nano),
		p.GeneratedAt.UTC().Format(time.RFC3339Nano),
		p.TotalTasks,
		p.TotalEvents,
		string(p.LearningStyle),
		p.StyleConfidence,
		string(p.DominantCategory),
		p.AIDependency,
		p.AdoptionRate,
		p.CodeEditRatio,
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

const selectColumns = `SELECT id, saved_at, data FROM profiles`

// Latest returns the most recently saved snapshot, or ErrNoSnapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` ORDER BY seq DESC LIMIT 1`)
	return scanSnapshot(row)
}

// Get returns the snapshot with id. A unique id prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE id LIKE ? ORDER BY seq DESC LIMIT 2`, id+"%")
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var found []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return Snapshot{}, err
		}
		found = append(found, snap)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	switch len(found) {
	case 0:
		return Snapshot{}, ErrNoSnapshot
	case 1:
		return found[0], nil
	default:
		return Snapshot{}, fmt.Errorf("snapshot id %q is ambiguous", id)
	}
}

// List returns up to limit snapshots, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := selectColumns + ` ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Prune keeps the newest keep snapshots and deletes the rest, returning
// the number deleted.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE seq NOT IN
		(SELECT seq FROM profiles ORDER BY seq DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		snap    Snapshot
		savedAt string
		data    string
	)
	if err := row.Scan(&snap.ID, &savedAt, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse saved_at: %w", err)
	}
	snap.SavedAt = t
	if err := json.Unmarshal([]byte(data), &snap.Profile); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return snap, nil
}

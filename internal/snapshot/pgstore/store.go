package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/fscache/internal/retry"
	"github.com/vvka-141/fscache/internal/snapshot"
	"github.com/vvka-141/fscache/pkg/fscache"
)

//go:embed schema.sql
var schemaSQL string

// Querier is the subset of *pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Entry describes one stored snapshot.
type Entry struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Files     int       `json:"files" yaml:"files"`
	Dirs      int       `json:"dirs" yaml:"dirs"`
}

// Store saves and loads named snapshots. Safe for concurrent use when db is.
type Store struct {
	db       Querier
	executor *retry.Executor
	logger   fscache.Logger
}

// New creates a store on db. Call EnsureSchema before first use.
func New(db Querier, logger fscache.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Store{
		db:       db,
		executor: retry.NewDefaultExecutor(logger),
		logger:   logger,
	}
}

func (s *Store) verbose(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Verbose(format, args...)
	}
}

// EnsureSchema creates the snapshot table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	err := s.executor.Execute(ctx, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, schemaSQL)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Save stores snap as the newest snapshot under name and returns its id.
func (s *Store) Save(ctx context.Context, name string, snap *fscache.Snapshot) (uuid.UUID, error) {
	if snap == nil {
		return uuid.Nil, fmt.Errorf("cannot save a nil snapshot")
	}
	// List counts keys of both maps, which must encode as objects.
	out := *snap
	if out.Files == nil {
		out.Files = map[string]fscache.FileRecord{}
	}
	if out.Dirs == nil {
		out.Dirs = map[string]fscache.DirRecord{}
	}

	payload, err := snapshot.Marshal(&out, snapshot.FormatJSON)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	err = s.executor.Execute(ctx, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx,
			`INSERT INTO fscache_snapshots (id, name, payload) VALUES ($1, $2, $3::jsonb)`,
			id, name, string(payload))
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}

	s.verbose("saved snapshot %q as %s (%d files, %d dirs)", name, id, len(snap.Files), len(snap.Dirs))
	return id, nil
}

// Load returns the newest snapshot stored under name.
// It fails with fscache.ErrSnapshotNotFound when there is none.
func (s *Store) Load(ctx context.Context, name string) (*fscache.Snapshot, error) {
	payload, err := retry.Value(ctx, s.executor, func(ctx context.Context) (string, error) {
		var payload string
		err := s.db.QueryRow(ctx,
			`SELECT payload::text FROM fscache_snapshots
			 WHERE name = $1 ORDER BY created_at DESC LIMIT 1`, name).Scan(&payload)
		return payload, err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", fscache.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}

	snap, err := snapshot.Unmarshal([]byte(payload), snapshot.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return snap, nil
}

// List returns the snapshots stored under name, newest first.
// An empty name lists every snapshot.
func (s *Store) List(ctx context.Context, name string) ([]Entry, error) {
	entries, err := retry.Value(ctx, s.executor, func(ctx context.Context) ([]Entry, error) {
		rows, err := s.db.Query(ctx,
			`SELECT id, name, created_at,
			        (SELECT count(*) FROM jsonb_object_keys(payload->'files'))::int,
			        (SELECT count(*) FROM jsonb_object_keys(payload->'dirs'))::int
			 FROM fscache_snapshots
			 WHERE $1 = '' OR name = $1
			 ORDER BY created_at DESC`, name)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
			var e Entry
			err := row.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.Files, &e.Dirs)
			return e, err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return entries, nil
}

// Prune deletes all but the newest keep snapshots under name and returns
// how many were deleted. keep below 1 is treated as 1.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	deleted, err := retry.Value(ctx, s.executor, func(ctx context.Context) (int64, error) {
		tag, err := s.db.Exec(ctx,
			`DELETE FROM fscache_snapshots
			 WHERE name = $1 AND id NOT IN (
			     SELECT id FROM fscache_snapshots
			     WHERE name = $1 ORDER BY created_at DESC LIMIT $2)`, name, keep)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots %q: %w", name, err)
	}
	if deleted > 0 {
		s.verbose("pruned %d old snapshots of %q", deleted, name)
	}
	return deleted, nil
}

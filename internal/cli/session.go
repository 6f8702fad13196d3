package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/fscache/internal/attributes/checksum"
	"github.com/vvka-141/fscache/internal/attributes/size"
	"github.com/vvka-141/fscache/internal/cache"
	calc "github.com/vvka-141/fscache/internal/checksum"
	"github.com/vvka-141/fscache/internal/config"
	"github.com/vvka-141/fscache/internal/files/filesystem"
	"github.com/vvka-141/fscache/internal/logging"
	"github.com/vvka-141/fscache/internal/snapshot"
	"github.com/vvka-141/fscache/internal/snapshot/pgstore"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// snapshotStore is where a session reads the cache from and writes it back to.
type snapshotStore interface {
	Load(ctx context.Context) (*fscache.Snapshot, error)
	Save(ctx context.Context, snap *fscache.Snapshot) error
	Describe() string
	Close()
}

type fileStore struct {
	path string
}

func (s *fileStore) Load(ctx context.Context) (*fscache.Snapshot, error) {
	return snapshot.LoadFile(s.path)
}

func (s *fileStore) Save(ctx context.Context, snap *fscache.Snapshot) error {
	return snapshot.SaveFile(s.path, snap)
}

func (s *fileStore) Describe() string { return s.path }

func (s *fileStore) Close() {}

type postgresStore struct {
	pool  *pgxpool.Pool
	store *pgstore.Store
	name  string
	keep  int
}

func openPostgresStore(ctx context.Context, cfg config.StoreConfig, logger fscache.Logger) (*postgresStore, error) {
	pool, err := pgstore.Connect(ctx, cfg.DSN, logger)
	if err != nil {
		return nil, err
	}
	store := pgstore.New(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &postgresStore{pool: pool, store: store, name: cfg.Name, keep: cfg.Keep}, nil
}

func (s *postgresStore) Load(ctx context.Context) (*fscache.Snapshot, error) {
	return s.store.Load(ctx, s.name)
}

func (s *postgresStore) Save(ctx context.Context, snap *fscache.Snapshot) error {
	if _, err := s.store.Save(ctx, s.name, snap); err != nil {
		return err
	}
	_, err := s.store.Prune(ctx, s.name, s.keep)
	return err
}

func (s *postgresStore) Describe() string { return "postgres snapshot " + s.name }

func (s *postgresStore) Close() { s.pool.Close() }

// session is one command run: configuration, an engine restored from the
// snapshot store, and the store to save it back to.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	logger *logging.ConsoleLogger
	engine *cache.Engine
	store  snapshotStore
}

// loadConfig reads .env, the config file, the environment and the flags, in
// increasing precedence.
func loadConfig(opts *globalOptions, logger fscache.Logger) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(opts.config)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Verbose("no %s found, using defaults", config.ConfigFileName)
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if opts.cacheFile != "" {
		cfg.CacheFile = opts.cacheFile
	}
	if opts.store != "" {
		cfg.Store.Kind = opts.store
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession prepares an engine for cmd. progress may be nil.
func openSession(cmd *cobra.Command, opts *globalOptions, progress fscache.ProgressFunc) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOSFileSystem()
	calculator, err := calc.New(cfg.Checksum.Algorithm, cfg.Checksum.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fscache.ErrInvalidConfig, err)
	}

	engine := cache.New(
		cache.WithFileSystem(fs),
		cache.WithLogger(logger),
		cache.WithProgress(progress),
		cache.WithMaxDepth(cfg.MaxDepth),
	)
	if err := engine.RegisterAttribute(size.Name, size.New(fs)); err != nil {
		return nil, err
	}
	if err := engine.RegisterAttribute(checksum.Name, checksum.New(fs, calculator)); err != nil {
		return nil, err
	}

	var store snapshotStore
	switch cfg.Store.Kind {
	case config.StorePostgres:
		store, err = openPostgresStore(ctx, cfg.Store, logger)
		if err != nil {
			return nil, err
		}
	default:
		store = &fileStore{path: cfg.CacheFile}
	}

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, fscache.ErrSnapshotNotFound):
		logger.Verbose("no snapshot in %s yet, starting empty", store.Describe())
	case err != nil:
		store.Close()
		return nil, err
	default:
		if err := engine.Import(snap); err != nil {
			store.Close()
			return nil, fmt.Errorf("restore %s: %w", store.Describe(), err)
		}
		logger.Verbose("restored %d file and %d directory records from %s", len(snap.Files), len(snap.Dirs), store.Describe())
	}

	return &session{ctx: ctx, cfg: cfg, logger: logger, engine: engine, store: store}, nil
}

// close saves the engine state back and releases the store. The cache is
// saved even when opErr is set, since whatever was learned stays valid.
func (s *session) close(opErr error) error {
	defer s.store.Close()

	if err := s.store.Save(s.ctx, s.engine.Export()); err != nil {
		return errors.Join(opErr, fmt.Errorf("save %s: %w", s.store.Describe(), err))
	}
	s.logger.Verbose("saved cache to %s", s.store.Describe())
	return opErr
}

// run opens a session, calls fn and saves the result.
func run(cmd *cobra.Command, opts *globalOptions, fn func(s *session) error) error {
	s, err := openSession(cmd, opts, nil)
	if err != nil {
		return err
	}
	return s.close(fn(s))
}

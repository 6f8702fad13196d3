package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/fscache/internal/retry"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// Pool limits. Snapshot traffic is one statement at a time, so the pool stays small.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// Connect opens a pool for dsn and pings it, retrying transient failures.
func Connect(ctx context.Context, dsn string, logger fscache.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid snapshot store dsn: %v", fscache.ErrInvalidConfig, err)
	}
	configurePool(poolConfig)

	cc := poolConfig.ConnConfig
	if logger != nil {
		logger.Verbose("connecting to snapshot store %s:%d/%s", cc.Host, cc.Port, cc.Database)
	}

	return retry.Value(ctx, retry.NewDefaultExecutor(logger), func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
		}
		return pool, nil
	})
}

// wrapConnectionError adds a hint for the failures people hit most.
func wrapConnectionError(err error, host string, port uint16, database string) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("connection refused to %s (is PostgreSQL running? try: pg_isready -h %s -p %d): %w",
			addr, host, port, err)
	case strings.Contains(msg, "password authentication failed"):
		return fmt.Errorf("password authentication failed for database %q (check the dsn or $FSCACHE_DSN): %w",
			database, err)
	case strings.Contains(msg, "does not exist"):
		return fmt.Errorf("database %q does not exist (create it with: createdb %s): %w", database, database, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return fmt.Errorf("connection timed out to %s: %w", addr, err)
	default:
		return fmt.Errorf("failed to connect to snapshot store %s: %w", addr, err)
	}
}

// Package testinfra starts throwaway PostgreSQL servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultPostgresImage = "postgres:17-alpine"
	PostgresUser         = "postgres"
	PostgresPassword     = "postgres"
	PostgresDB           = "fscache"
)

// PostgresImage returns the image to run, overridable with FSCACHE_TEST_PG_IMAGE.
func PostgresImage() string {
	if image := os.Getenv("FSCACHE_TEST_PG_IMAGE"); image != "" {
		return image
	}
	return DefaultPostgresImage
}

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartSimplePostgres runs a plain PostgreSQL container and returns its DSN.
// Callers must Terminate it.
func StartSimplePostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage(),
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			// The server logs readiness twice: once for the init run, once for real.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

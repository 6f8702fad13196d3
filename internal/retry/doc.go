// Package retry re-runs operations that fail with transient errors, with
// exponential backoff between attempts.
//
// The PostgreSQL snapshot store runs every database round trip through an
// Executor so that a restarting or overloaded server does not lose a snapshot.
//
// # Example Usage
//
//	executor := retry.NewDefaultExecutor(logger)
//	id, err := retry.Value(ctx, executor, func(ctx context.Context) (uuid.UUID, error) {
//	    return insertSnapshot(ctx)
//	})
//
// # Error Classification
//
// An fscache.ErrorClassifier decides which errors are transient. The
// PostgreSQLErrorClassifier accepts connection, resource and operator
// intervention SQLSTATE classes, serialization failures, deadlocks, lock
// timeouts and network-level failures. Context cancellation is always fatal.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use.
package retry

package fscache

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Command completed successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, unknown attribute)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration
	ExitSnapshotError  = 11 // Snapshot missing or malformed
	ExitAttributeError = 12 // An attribute plugin failed
	ExitTraversalError = 13 // Directory recursion exceeded the depth limit
)

const (
	// DefaultMaxDepth bounds recursive directory materialization.
	DefaultMaxDepth = 64

	// DefaultChecksumBlockSize is the block size used by block-wise checksums.
	// Changing it invalidates previously computed checksums.
	DefaultChecksumBlockSize = 32 * 1024 * 1024

	// DefaultCacheFile is the snapshot file used when none is configured.
	DefaultCacheFile = ".fscache.json"

	// DefaultSnapshotName is the snapshot name used by database-backed stores.
	DefaultSnapshotName = "default"

	// DefaultSnapshotKeep is how many snapshots per name a store retains after pruning.
	DefaultSnapshotKeep = 5

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3
)

// Progress titles reported by bulk operations.
const (
	ProgressTitleScan  = "Indexing files"
	ProgressTitleCheck = "Refreshing files info"
)

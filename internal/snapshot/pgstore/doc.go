// Package pgstore keeps cache snapshots in PostgreSQL.
//
// Every Save inserts a new row into fscache_snapshots under a snapshot name,
// so a name carries a history; Load returns the newest row and Prune trims
// the history. Payloads are the JSON snapshot encoding stored as jsonb.
//
// Connection setup and every statement run through the retry executor, so
// transient server or network failures are retried with backoff.
package pgstore

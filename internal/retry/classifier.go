package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Transient PostgreSQL error codes outside the always-transient classes
// 08 (connection exception), 53 (insufficient resources) and 57 (operator intervention).
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

var transientClasses = []string{"08", "53", "57"}

// transientMessages match driver errors that carry no SQLSTATE.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
}

// PostgreSQLErrorClassifier decides which snapshot store failures are worth retrying.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient reports whether err is temporary. Cancellation is never transient.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	return isTransientNetworkError(err) || hasTransientMessage(err)
}

func isTransientCode(code string) bool {
	for _, class := range transientClasses {
		if strings.HasPrefix(code, class) {
			return true
		}
	}
	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}

func isTransientNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	if opErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
		if errors.Is(opErr.Err, errno) {
			return true
		}
	}
	return false
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

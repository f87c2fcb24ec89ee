package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/constellation/core/internal/domain"
)

// wrapDBError wraps a raw database error with operation context and maps
// it onto a domain error kind. sql.ErrNoRows becomes notFoundKind.
func wrapDBError(op string, err error, notFoundKind domain.ErrorKind) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Wrap(notFoundKind, err, "%s", op)
	}
	if isUniqueConstraintErr(err) {
		return domain.Wrap(domain.DuplicateEntry, err, "%s", op)
	}
	return domain.Wrap(domain.DatabaseError, err, "%s: %v", op, err)
}

func isUniqueConstraintErr(err error) bool {
	// go-sqlite3 surfaces constraint violations in the error text; there is
	// no typed sentinel exported for UNIQUE specifically, so this mirrors
	// the teacher's string-based isConflict/isCycle helpers.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}

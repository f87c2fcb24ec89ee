package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// beginImmediateWithRetry issues a raw "BEGIN IMMEDIATE" on conn, retrying
// with exponential backoff when SQLite reports the database is busy.
//
// database/sql does not let BeginTx select a transaction mode, and the
// go-sqlite3 driver's BeginTx always starts a DEFERRED transaction, so
// multi-statement mutations that need a RESERVED lock up front issue
// "BEGIN IMMEDIATE" directly on a dedicated connection instead, exactly as
// the teacher's CreateIssue does (internal/storage/sqlite/queries.go).
func beginImmediateWithRetry(ctx context.Context, conn *sql.Conn) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second

	return backoff.Retry(func() error {
		_, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE")
		if err == nil {
			return nil
		}
		if isBusyErr(err) {
			return err // retryable
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))
}

func isBusyErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withImmediateTx acquires a dedicated connection, begins an immediate
// transaction, runs fn, and commits or rolls back as a unit. Rollback uses
// context.Background() so cleanup happens even if ctx was canceled, per
// the teacher's defer pattern in queries.go.
func withImmediateTx(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := beginImmediateWithRetry(ctx, conn); err != nil {
		return fmt.Errorf("begin immediate transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	if err := fn(conn); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
)

// ErrMigrationLocked is returned when another process is migrating the same
// database.
var ErrMigrationLocked = errors.New("migration_locked")

// lockName identifies this schema's migrations among other tenants of a shared
// postgres server.
const lockName = "cabinbuddy.schema"

// sessionLock is a lock held by a single database session.
type sessionLock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) (bool, error)
}

// lockKey maps a name onto the positive int64 space of pg advisory locks.
func lockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64() &^ (1 << 63))
}

// pgAdvisoryLock pins one pooled connection so lock and unlock run on the
// same session.
type pgAdvisoryLock struct {
	db   *sql.DB
	key  int64
	conn *sql.Conn
}

func newPGAdvisoryLock(db *sql.DB) *pgAdvisoryLock {
	return &pgAdvisoryLock{db: db, key: lockKey(lockName)}
}

func (l *pgAdvisoryLock) TryLock(ctx context.Context) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, err
	}
	var locked bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&locked); err != nil {
		_ = conn.Close()
		return false, err
	}
	if !locked {
		_ = conn.Close()
		return false, nil
	}
	l.conn = conn
	return true, nil
}

func (l *pgAdvisoryLock) Unlock(ctx context.Context) (bool, error) {
	if l.conn == nil {
		return false, nil
	}
	defer func() {
		_ = l.conn.Close()
		l.conn = nil
	}()
	var released bool
	if err := l.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.key).Scan(&released); err != nil {
		return false, err
	}
	return released, nil
}

// withLock runs fn while holding lock. fn is never called when the lock is
// busy, and the lock is released even when fn fails.
func withLock(ctx context.Context, lock sessionLock, fn func() error) (err error) {
	locked, err := lock.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	if !locked {
		return ErrMigrationLocked
	}

	defer func() {
		released, unlockErr := lock.Unlock(context.WithoutCancel(ctx))
		switch {
		case unlockErr != nil:
			err = errors.Join(err, fmt.Errorf("release migration lock: %w", unlockErr))
		case !released:
			err = errors.Join(err, errors.New("migration lock was not held by this session"))
		}
	}()

	return fn()
}

package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLock struct {
	busy      bool
	lockErr   error
	unlockErr error
	notHeld   bool

	locks   int
	unlocks int
	held    bool
}

func (l *fakeLock) TryLock(context.Context) (bool, error) {
	l.locks++
	if l.lockErr != nil {
		return false, l.lockErr
	}
	if l.busy {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock(context.Context) (bool, error) {
	l.unlocks++
	if l.unlockErr != nil {
		return false, l.unlockErr
	}
	wasHeld := l.held && !l.notHeld
	l.held = false
	return wasHeld, nil
}

type fakeVersioner struct {
	version uint
	dirty   bool
	err     error
}

func (v fakeVersioner) Version() (uint, bool, error) { return v.version, v.dirty, v.err }

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestReadEmbeddedSchema(t *testing.T) {
	first, err := readEmbeddedSchema()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Len(t, first.Checksum, 64)

	second, err := readEmbeddedSchema()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseMigrationVersion(t *testing.T) {
	v, ok := parseMigrationVersion("000012_add_receipts.up.sql")
	assert.True(t, ok)
	assert.Equal(t, uint(12), v)

	_, ok = parseMigrationVersion("init.up.sql")
	assert.False(t, ok)
}

func TestLockKeyIsStableAndPositive(t *testing.T) {
	key := lockKey(lockName)
	assert.Positive(t, key)
	assert.Equal(t, key, lockKey(lockName))
	assert.NotEqual(t, key, lockKey("another.schema"))
}

func TestWithLockRunsAndReleases(t *testing.T) {
	lock := &fakeLock{}
	ran := false
	err := withLock(context.Background(), lock, func() error {
		ran = true
		assert.True(t, lock.held)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, lock.unlocks)
	assert.False(t, lock.held)
}

func TestWithLockBusySkipsWork(t *testing.T) {
	lock := &fakeLock{busy: true}
	err := withLock(context.Background(), lock, func() error {
		t.Fatal("migration ran without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrMigrationLocked)
	assert.Zero(t, lock.unlocks)
}

func TestWithLockAcquireError(t *testing.T) {
	lock := &fakeLock{lockErr: errors.New("connection refused")}
	err := withLock(context.Background(), lock, func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire migration lock")
	assert.Zero(t, lock.unlocks)
}

func TestWithLockReleasesAfterFailure(t *testing.T) {
	lock := &fakeLock{}
	boom := errors.New("boom")
	err := withLock(context.Background(), lock, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, lock.unlocks)
	assert.False(t, lock.held)
}

func TestWithLockReportsReleaseProblems(t *testing.T) {
	lock := &fakeLock{unlockErr: errors.New("conn reset")}
	err := withLock(context.Background(), lock, func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release migration lock")

	lock = &fakeLock{notHeld: true}
	boom := errors.New("boom")
	err = withLock(context.Background(), lock, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "not held by this session")
}

func TestCleanVersion(t *testing.T) {
	v, err := cleanVersion(fakeVersioner{err: migrate.ErrNilVersion})
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = cleanVersion(fakeVersioner{version: 3})
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)

	_, err = cleanVersion(fakeVersioner{version: 3, dirty: true})
	assert.ErrorContains(t, err, "dirty at version 3")

	_, err = cleanVersion(fakeVersioner{err: errors.New("no table")})
	assert.ErrorContains(t, err, "read migration version")
}

func TestRunAutoMigratesNonPostgresDrivers(t *testing.T) {
	conn := openSQLite(t)

	require.NoError(t, Run(conn, "sqlite", zap.NewNop()))
	for _, table := range []string{"rate_configs", "stays", "payments", "payment_splits", "receipts", "schema_state"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}

	require.NoError(t, Run(conn, "sqlite", zap.NewNop()), "running twice is a no-op")
}

func TestRunRecordsSchemaState(t *testing.T) {
	conn := openSQLite(t)
	require.NoError(t, Run(conn, "sqlite", zap.NewNop()))
	require.NoError(t, Run(conn, "sqlite", zap.NewNop()))

	schema, err := readEmbeddedSchema()
	require.NoError(t, err)

	state, err := CurrentSchemaState(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "1", state.SchemaVersion)
	require.NotNil(t, state.Checksum)
	assert.Equal(t, schema.Checksum, *state.Checksum)
	assert.False(t, state.AppliedAt.IsZero())

	var rows int64
	require.NoError(t, conn.Model(&SchemaState{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestRunRequiresConnection(t *testing.T) {
	assert.Error(t, Run(nil, "sqlite", zap.NewNop()))
}

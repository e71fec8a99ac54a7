package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaState is the singleton row describing the applied schema.
type SchemaState struct {
	ID            bool      `gorm:"primaryKey;default:true"`
	SchemaVersion string    `gorm:"type:varchar(32);not null"`
	Checksum      *string   `gorm:"type:varchar(64)"`
	AppliedAt     time.Time `gorm:"not null"`
}

func (SchemaState) TableName() string { return "schema_state" }

// embeddedSchema describes the migrations compiled into the binary.
type embeddedSchema struct {
	Version  uint
	Checksum string
}

// readEmbeddedSchema returns the highest embedded up-migration version and a
// checksum over every up-migration, in filename order.
func readEmbeddedSchema() (embeddedSchema, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return embeddedSchema{}, fmt.Errorf("list migrations: %w", err)
	}

	var out embeddedSchema
	var names []string
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name())
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, ok := parseMigrationVersion(name)
		if !ok {
			return embeddedSchema{}, fmt.Errorf("invalid migration filename: %s", name)
		}
		out.Version = max(out.Version, version)
		names = append(names, name)
	}
	if out.Version == 0 {
		return embeddedSchema{}, errors.New("no embedded migrations found")
	}
	sort.Strings(names)

	hasher := sha256.New()
	for _, name := range names {
		content, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return embeddedSchema{}, fmt.Errorf("read migration %s: %w", name, err)
		}
		_, _ = hasher.Write([]byte(name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(content)
		_, _ = hasher.Write([]byte{0})
	}
	out.Checksum = hex.EncodeToString(hasher.Sum(nil))
	return out, nil
}

func parseMigrationVersion(name string) (uint, bool) {
	prefix, _, _ := strings.Cut(name, "_")
	parsed, err := strconv.ParseUint(strings.TrimSpace(prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}

// recordSchemaState upserts the singleton schema_state row.
func recordSchemaState(ctx context.Context, conn *gorm.DB, schema embeddedSchema, appliedAt time.Time) error {
	state := SchemaState{
		ID:            true,
		SchemaVersion: strconv.FormatUint(uint64(schema.Version), 10),
		AppliedAt:     appliedAt.UTC(),
	}
	if checksum := strings.TrimSpace(schema.Checksum); checksum != "" {
		state.Checksum = &checksum
	}

	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"schema_version", "checksum", "applied_at"}),
		}).
		Create(&state).Error
	if err != nil {
		return fmt.Errorf("record schema state: %w", err)
	}
	return nil
}

// CurrentSchemaState reads the recorded schema state.
func CurrentSchemaState(ctx context.Context, conn *gorm.DB) (SchemaState, error) {
	var state SchemaState
	if err := conn.WithContext(ctx).Where("id = ?", true).Take(&state).Error; err != nil {
		return SchemaState{}, fmt.Errorf("read schema state: %w", err)
	}
	return state, nil
}

package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrateTimeout = 2 * time.Minute

// Models lists every persisted domain type, in dependency order.
func Models() []any {
	return []any{
		&ratedomain.RateConfig{},
		&staydomain.Stay{},
		&paymentdomain.Payment{},
		&paymentdomain.PaymentSplit{},
		&receiptdomain.Receipt{},
	}
}

// Run brings the schema up to date and records the result in schema_state.
// Postgres applies the embedded SQL migrations under an advisory lock; other
// drivers are migrated from the models.
func Run(conn *gorm.DB, driver string, log *zap.Logger) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	schema, err := readEmbeddedSchema()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	switch driver {
	case db.DriverPostgres, "":
		driver = db.DriverPostgres
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		err = withLock(ctx, newPGAdvisoryLock(sqlDB), func() error {
			if err := applyEmbedded(sqlDB, schema.Version); err != nil {
				return err
			}
			return recordSchemaState(ctx, conn, schema, time.Now())
		})
		if err != nil {
			return err
		}
	default:
		if err := conn.WithContext(ctx).AutoMigrate(append(Models(), &SchemaState{})...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		if err := recordSchemaState(ctx, conn, schema, time.Now()); err != nil {
			return err
		}
	}

	log.Info("schema migrated",
		zap.String("driver", driver),
		zap.Uint("version", schema.Version),
		zap.String("checksum", schema.Checksum),
	)
	return nil
}

// applyEmbedded runs the embedded up-migrations and checks the database lands
// on want.
func applyEmbedded(sqlDB *sql.DB, want uint) error {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	target, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, db.DriverPostgres, target)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if _, err := cleanVersion(migrator); err != nil {
		return err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	got, err := cleanVersion(migrator)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", got, want)
	}
	return nil
}

// versioner is the part of *migrate.Migrate that reports the applied version.
type versioner interface {
	Version() (uint, bool, error)
}

// cleanVersion returns the applied version, zero for a fresh database, and
// fails on a dirty one.
func cleanVersion(m versioner) (uint, error) {
	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}

package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type MigrationConfig struct {
	DBName     string
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultMigrationConfig(dbName string) *MigrationConfig {
	return &MigrationConfig{
		DBName:     dbName,
		MaxRetries: 5,
		RetryDelay: 2 * time.Second,
	}
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(db *sql.DB, cfg *MigrationConfig) error {
	if cfg == nil {
		cfg = DefaultMigrationConfig("coating_scheduler")
	}

	if err := waitForDatabase(db, cfg.MaxRetries, cfg.RetryDelay); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	m, err := newMigrator(db, cfg.DBName)
	if err != nil {
		return err
	}

	if v, dirty, err := m.Version(); err == nil {
		log.Printf("[migrate] current version %d (dirty: %v)", v, dirty)
	} else if errors.Is(err, migrate.ErrNilVersion) {
		log.Println("[migrate] no migrations applied yet")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("[migrate] schema up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}
	log.Printf("[migrate] migrated to version %d (dirty: %v)", v, dirty)
	return nil
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(db *sql.DB, cfg *MigrationConfig) error {
	if cfg == nil {
		cfg = DefaultMigrationConfig("coating_scheduler")
	}
	m, err := newMigrator(db, cfg.DBName)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	log.Println("[migrate] rolled back one step")
	return nil
}

func newMigrator(db *sql.DB, dbName string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{
		DatabaseName:    dbName,
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

func waitForDatabase(db *sql.DB, maxRetries int, retryDelay time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Printf("[migrate] database not ready, retrying in %v (attempt %d/%d)", retryDelay, i+1, maxRetries)
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("database not ready after %d attempts: %w", maxRetries, err)
}

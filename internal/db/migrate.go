package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/crucial707/student-records/internal/config"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Run applies all pending migrations (Up) for the configured driver and returns
// the resulting schema version. Already being at the latest version is not an error.
func Run(cfg config.Config) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+cfg.DBDriver)
	if err != nil {
		return 0, fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(cfg))
	if err != nil {
		return 0, fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migrate version: %w", err)
	}
	return version, nil
}

// MigrationURL builds the golang-migrate database URL. Postgres DSNs must
// already be in URL form ("postgres://...").
func MigrationURL(cfg config.Config) string {
	if cfg.DBDriver == config.DriverPostgres {
		return cfg.DBDSN
	}
	path := strings.TrimPrefix(cfg.DBDSN, "file:")
	return "sqlite3://" + path
}

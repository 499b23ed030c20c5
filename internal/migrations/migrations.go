// Package migrations brings the mirror database up to the current
// schema from the SQL files embedded alongside it.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var migrationsFS embed.FS

// Run applies any pending migrations to the given database. An already
// current schema is not an error.
func Run(dbx *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("error reading embedded migrations: %s", err)
	}
	inst, err := sqlite.WithInstance(dbx.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("error preparing sqlite for migration: %s", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", inst)
	if err != nil {
		return fmt.Errorf("error creating migrator: %s", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error migrating: %s", err)
	}
	slog.Info("post schema up to date")

	return nil
}

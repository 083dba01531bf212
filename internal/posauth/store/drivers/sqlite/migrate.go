package sqlite

import (
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite/migrations"
	"github.com/pkg/errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

// ApplyMigrations applies any pending migrations embedded in the binary.
func (m *Store) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "could not create migration driver")
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return errors.Wrap(err, "could not open embedded migrations")
	}

	instance, err := migrate.NewWithInstance("iofs", source, "", driver)
	if err != nil {
		return errors.Wrap(err, "could not create migrator")
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "could not apply migrations")
	}

	return nil
}

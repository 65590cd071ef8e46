package dbconnection

import (
	"errors"
	"fmt"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/queries"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type DBConnection struct {
	League   *queries.LeagueDBConnection
	Playoffs *queries.PlayoffsDBConnection
}

func NewDBConnection(connectionString string) (*DBConnection, *sqlx.DB, error) {
	db, connErr := sqlx.Open("postgres", connectionString)
	if connErr != nil {
		return nil, nil, fmt.Errorf("failed to connect the database!...: %w", connErr)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database connection failed!: %w", err)
	}

	return &DBConnection{
		League:   &queries.LeagueDBConnection{DB: db},
		Playoffs: &queries.PlayoffsDBConnection{DB: db},
	}, db, nil
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies or rolls back every migration found in path.
// An already current schema is not an error.
func RunMigrations(db *sqlx.DB, path string, direction Direction) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", verr)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Str("direction", string(direction)).Msg("migrations applied")
	return nil
}

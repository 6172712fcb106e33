package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Database holds database connection and configuration
type Database struct {
	*sqlx.DB
	Dialect migrations.Dialect
	logger  *logrus.Logger
}

// NewDatabase creates a new database connection. postgres:// and
// postgresql:// URLs use lib/pq; sqlite://path and file:path use the
// embedded sqlite driver with foreign keys enforced on every connection.
func NewDatabase(databaseURL string, logger *logrus.Logger) (*Database, error) {
	driverName, dsn, dialect, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if dialect == migrations.SQLite {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Hour)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("dialect", dialect).Info("Database connection established successfully")

	return &Database{
		DB:      db,
		Dialect: dialect,
		logger:  logger,
	}, nil
}

func parseDatabaseURL(raw string) (driverName, dsn string, dialect migrations.Dialect, err error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return "postgres", raw, migrations.Postgres, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return "sqlite", sqliteDSN("file:" + strings.TrimPrefix(raw, "sqlite://")), migrations.SQLite, nil
	case strings.HasPrefix(raw, "file:"):
		return "sqlite", sqliteDSN(raw), migrations.SQLite, nil
	default:
		return "", "", "", fmt.Errorf("unsupported DATABASE_URL %q: want postgres://, sqlite:// or file:", raw)
	}
}

// sqliteDSN appends the pragmas every pooled connection needs. Cascading
// deletes depend on foreign_keys being on.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (d *Database) migrator() (*migrate.Migrate, error) {
	files, err := migrations.FS(d.Dialect)
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	var driver database.Driver
	switch d.Dialect {
	case migrations.Postgres:
		driver, err = postgres.WithInstance(d.DB.DB, &postgres.Config{})
	case migrations.SQLite:
		driver, err = sqlite.WithInstance(d.DB.DB, &sqlite.Config{})
	default:
		err = fmt.Errorf("unknown dialect %q", d.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(d.Dialect), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// Migrate runs database migrations
func (d *Database) Migrate() error {
	m, err := d.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

// MigrateDown rolls back every migration.
func (d *Database) MigrateDown() error {
	m, err := d.migrator()
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	d.logger.Info("Database migrations rolled back")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

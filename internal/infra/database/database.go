package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mkrupp/weatherapp/internal/infra/logging"
)

//go:embed migrations
var migrations embed.FS

var (
	// ErrUnknownDriver is returned when the configured driver is neither sqlite nor postgres.
	ErrUnknownDriver = errors.New("unknown database driver")
	// ErrNoDSN is returned when the postgres driver is selected without a DSN.
	ErrNoDSN = errors.New("no database dsn")
)

// Dialect identifies the SQL flavour a DB speaks.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config holds the persistence store settings.
type Config struct {
	// Driver selects the backend: "sqlite" or "postgres"
	Driver string `env:"DRIVER" default:"sqlite"`

	// Path is the SQLite database file
	Path string `env:"PATH" default:"weather.db"`

	// DSN is the PostgreSQL connection string (pgx syntax)
	DSN string `env:"DSN" default:"" secret:"true"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" default:"5m"`

	// BusyTimeout is how long SQLite waits on a locked database
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT" default:"5s"`
}

// DB is a migrated database handle that knows its dialect.
type DB struct {
	*sql.DB

	Dialect Dialect

	writeLock sync.Mutex
}

// WriteLock returns the mutex every SQLite repository on this DB holds while writing.
// SQLite admits a single writer, so all tables share it.
func (db *DB) WriteLock() *sync.Mutex {
	return &db.writeLock
}

// Open connects to the configured backend and applies all pending migrations.
func Open(ctx context.Context, cfg Config) (_ *DB, err error) {
	log := logging.GetLogger("infra.database").With(
		logging.Group("db", "driver", cfg.Driver),
	)

	var db *sql.DB

	switch Dialect(cfg.Driver) {
	case DialectSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(cfg))
	case DialectPostgres:
		if cfg.DSN == "" {
			return nil, ErrNoDSN
		}

		db, err = sql.Open("pgx", cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	wrapped := &DB{DB: db, Dialect: Dialect(cfg.Driver)}

	applied, err := wrapped.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.DebugContext(ctx, "database ready", "migrations_applied", applied)

	return wrapped, nil
}

// Migrate applies the embedded migrations for the DB's dialect and returns
// how many were applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	var (
		dir     string
		dialect goose.Dialect
	)

	switch db.Dialect {
	case DialectSQLite:
		dir, dialect = "migrations/sqlite", goose.DialectSQLite3
	case DialectPostgres:
		dir, dialect = "migrations/postgres", goose.DialectPostgres
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDriver, db.Dialect)
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return 0, fmt.Errorf("sub fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return 0, fmt.Errorf("new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("up: %w", err)
	}

	return len(results), nil
}

func sqliteDSN(cfg Config) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
}

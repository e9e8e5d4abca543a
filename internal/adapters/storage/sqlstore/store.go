// Package sqlstore implements the quote repository on database/sql.
//
// The engine is chosen from the connection URL: PostgreSQL through the pgx
// stdlib driver, or SQLite through the pure-Go modernc driver. Each repository
// method issues exactly one statement in auto-commit mode.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Default pool settings used when Config leaves them zero.
const (
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute

	// pingTimeout bounds the startup connectivity check.
	pingTimeout = 10 * time.Second
)

// Config contains database connection settings.
type Config struct {
	// URL selects the engine and location, e.g. sqlite:///quotes.db.
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Store owns the connection pool and implements ports.QuoteRepository.
type Store struct {
	db      *sql.DB
	dialect *dialect
	logger  *slog.Logger
}

// Open connects to the database named by cfg.URL and verifies it answers a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, d.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", d.name, err)
	}

	configurePool(db, d, &cfg)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", d.name, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "sqlstore"), slog.String("dialect", d.name)),
	}

	s.logger.InfoContext(ctx, "connected to the database")

	return s, nil
}

func configurePool(db *sql.DB, d *dialect, cfg *Config) {
	if d.singleConn {
		// SQLite serializes writers; one connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)

		return
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}

	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
}

// EnsureSchema creates the quote table if it does not exist yet.
// There are no migrations; an existing table is left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return fmt.Errorf("creating quote table: %w", err)
	}

	s.logger.DebugContext(ctx, "schema ready")

	return nil
}

// DB returns the underlying pool, e.g. for metrics collectors.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the engine name ("postgres" or "sqlite").
func (s *Store) Dialect() string {
	return s.dialect.name
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.logger.Info("closing database connection pool")

	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("closing database: %w", err)
	}

	return nil
}

// Name returns the health check name for the store.
// Implements ports.HealthChecker.
func (s *Store) Name() string {
	return "database"
}

// Check pings the database.
// Implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

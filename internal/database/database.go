package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotelbook/internal/config"
	"hotelbook/internal/domain"
	"hotelbook/internal/logging"
	"hotelbook/internal/worker"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

const memoryPath = ":memory:"

// DB is the record store for categories, rooms and bookings.
// Query methods are promoted from executor so the same code runs
// against the pool and inside a transaction.
type DB struct {
	*sql.DB
	executor

	dialect string
	path    string
	retry   worker.RetryPolicy
	logger  *zerolog.Logger
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type executor struct {
	q       queryer
	builder sq.StatementBuilderType
}

// Open connects to the configured backend and applies migrations.
func Open(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	switch cfg.Driver {
	case "", config.DriverSQLite:
		return newSQLite(cfg.Path, cfg.BusyTimeoutMS, cfg.TxRetries, logger)
	case config.DriverPostgres:
		return NewPostgresDB(cfg.Postgres, cfg.TxRetries, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewDB opens (or creates) an sqlite database at path. ":memory:" is supported for tests.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	return newSQLite(path, 5000, 3, logger)
}

func newSQLite(path string, busyTimeoutMS, retries int, logger *zerolog.Logger) (*DB, error) {
	dsn := fmt.Sprintf("%s?_txlock=immediate&_busy_timeout=%d&_foreign_keys=on", path, busyTimeoutMS)
	if path != memoryPath {
		// Создаем директорию для БД, если её нет
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn += "&_journal_mode=WAL"
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == memoryPath {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	db := newDB(sqlDB, config.DriverSQLite, path, retries, logger)
	if err := db.init(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresDB connects through lib/pq and applies migrations.
func NewPostgresDB(cfg config.PostgresConfig, retries int, logger *zerolog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}

	db := newDB(sqlDB, config.DriverPostgres, "", retries, logger)
	if err := db.init(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func newDB(sqlDB *sql.DB, dialect, path string, retries int, logger *zerolog.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == config.DriverPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:       sqlDB,
		executor: executor{q: sqlDB, builder: sq.StatementBuilder.PlaceholderFormat(placeholder)},
		dialect:  dialect,
		path:     path,
		retry: worker.RetryPolicy{
			MaxRetries:    retries,
			InitialDelay:  20 * time.Millisecond,
			MaxDelay:      500 * time.Millisecond,
			BackoffFactor: 2,
		},
		logger: logging.Component(logger, "database"),
	}
}

func (db *DB) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.migrate(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	db.logger.Info().Str("dialect", db.dialect).Str("path", db.path).Msg("database initialized")
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	statements := sqliteSchema
	if db.dialect == config.DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing query %s: %w", stmt, err)
		}
	}
	return nil
}

// Dialect returns the configured backend, config.DriverSQLite or config.DriverPostgres.
func (db *DB) Dialect() string {
	return db.dialect
}

// Path is the sqlite file path; empty for postgres.
func (db *DB) Path() string {
	return db.path
}

// WithinTx runs fn in a single transaction. On sqlite the write lock is taken
// at BEGIN (_txlock=immediate); on postgres the transaction is SERIALIZABLE and
// serialization failures are retried with backoff.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.BookingTx) error) error {
	retryable := func(err error) bool {
		if !isRetryable(err) {
			return false
		}
		db.logger.Warn().Err(err).Msg("transaction aborted by concurrent writer, retrying")
		return true
	}

	return worker.Retry(ctx, db.retry, retryable, func(ctx context.Context) error {
		return db.runTx(ctx, fn)
	})
}

func (db *DB) runTx(ctx context.Context, fn func(ctx context.Context, tx domain.BookingTx) error) error {
	var opts *sql.TxOptions
	if db.dialect == config.DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &txStore{executor{q: tx, builder: db.builder}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore is the domain.BookingTx handed to WithinTx callbacks.
type txStore struct {
	executor
}

var _ domain.BookingTx = (*txStore)(nil)

var (
	_ domain.BookingRepository = (*DB)(nil)
	_ domain.CatalogRepository = (*DB)(nil)
)

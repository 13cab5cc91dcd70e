package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kantoku/kantoku/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteKV is a KV implementation backed by a single SQLite table.
type SQLiteKV struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the kv schema exists.
func Open(path string) (*SQLiteKV, error) {
	log := logger.Default().WithPrefix("store")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite best practice for single writer

	if _, err := db.Exec(schema); err != nil {
		log.Error("failed to apply schema: %v", err)
		db.Close()
		return nil, err
	}

	log.Info("database ready")
	return &SQLiteKV{db: db, log: log}, nil
}

// NewSQLiteKV wraps an existing database handle. The kv table must exist.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db, log: logger.Default().WithPrefix("store")}
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sqlBuilder.
		Select("value").
		From("kv").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.log.Error("failed to get key %q: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	query, args, err := sqlBuilder.
		Insert("kv").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to set key %q: %v", key, err)
		return err
	}
	s.log.Debug("set key %q (%d bytes)", key, len(value))
	return nil
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.
		Delete("kv").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to delete key %q: %v", key, err)
		return err
	}
	return nil
}

// DB exposes the underlying handle for health checks.
func (s *SQLiteKV) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

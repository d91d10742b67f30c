// Package sqlite contains the SQLite implementation of the transfer repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/migrate"
)

const driverName = "sqlite"

// DB describes a store file. Every operation opens its own connection.
type DB struct {
	path        string
	busyTimeout time.Duration
	log         *zap.Logger
	version     int64
}

// Option configures a DB.
type Option func(*DB)

// WithBusyTimeout sets how long SQLite waits on a locked file before failing.
func WithBusyTimeout(d time.Duration) Option {
	return func(db *DB) {
		if d >= 0 {
			db.busyTimeout = d
		}
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.log = l
		}
	}
}

// Open creates the store file if needed and migrates it to the current schema.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w: %w", errs.ErrIO, err)
	}
	db := &DB{path: abs, busyTimeout: 5 * time.Second, log: zap.NewNop()}
	for _, o := range opts {
		o(db)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w: %w", errs.ErrIO, err)
	}

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var legacy int64
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&legacy); err != nil {
		return nil, fmt.Errorf("read user_version %s: %w", path, classify(err))
	}
	ver, err := migrate.Up(ctx, conn, db.log)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, classify(err))
	}
	db.version = ver
	if legacy != ver {
		db.log.Info("transfer store migrated",
			zap.String("path", abs),
			zap.Int64("from", legacy),
			zap.Int64("to", ver),
		)
	}
	return db, nil
}

// Path returns the store file location.
func (db *DB) Path() string { return db.path }

// Version returns the schema version reached by Open.
func (db *DB) Version() int64 { return db.version }

// dsn escapes the path so '?', '#' and '%' in directory names stay part of it.
func (db *DB) dsn() string {
	u := url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(db.path),
		RawQuery: fmt.Sprintf("_pragma=busy_timeout(%d)&_txlock=immediate", db.busyTimeout.Milliseconds()),
	}
	return u.String()
}

// conn opens a single-connection handle; callers close it.
func (db *DB) conn(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open(driverName, db.dsn())
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", db.path, err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open store %s: %w", db.path, classify(err))
	}
	return conn, nil
}

// classify maps SQLite result codes onto the shared error kinds.
func classify(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return fmt.Errorf("%w: %w", errs.ErrStoreBusy, err)
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return fmt.Errorf("%w: %w", errs.ErrStoreCorrupt, err)
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	return err
}

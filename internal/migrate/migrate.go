// Package migrate applies embedded SQL migrations to the transfer store.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/jami-localstate/migrations"
)

// goose keeps its settings in package globals.
var mu sync.Mutex

// Up runs all pending migrations and returns the resulting schema version.
// The version is also stamped into PRAGMA user_version.
func Up(ctx context.Context, db *sql.DB, log *zap.Logger) (int64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return 0, err
	}

	ver, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", ver)); err != nil {
		return 0, fmt.Errorf("stamp user_version: %w", err)
	}
	return ver, nil
}

// gooseLogger routes goose output to zap. Fatalf never exits.
type gooseLogger struct{ log *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.log.Debugf(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Errorf(format, v...) }

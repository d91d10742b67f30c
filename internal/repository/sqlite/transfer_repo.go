package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/and161185/jami-localstate/internal/model"
)

// TransferRepo implements TransferRepository using SQLite.
type TransferRepo struct{ db *DB }

// NewTransferRepo constructs a transfer repository.
func NewTransferRepo(db *DB) *TransferRepo { return &TransferRepo{db: db} }

const selectFirst = `
SELECT id, path FROM transfers
WHERE account_id=? AND conversation_id=? AND tid=?
ORDER BY id ASC LIMIT 1`

// Path returns the path of the oldest row recorded for key.
func (r *TransferRepo) Path(ctx context.Context, key model.TransferKey) (string, bool, error) {
	conn, err := r.db.conn(ctx)
	if err != nil {
		return "", false, err
	}
	defer conn.Close()

	var (
		id   int64
		path sql.NullString
	)
	err = conn.QueryRowContext(ctx, selectFirst, key.AccountID, key.ConversationID, key.TransferID).Scan(&id, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select path: %w", classify(err))
	}
	if !path.Valid {
		return "", false, nil
	}
	return path.String, true, nil
}

// SetFilePath inserts a row unconditionally and returns its id.
// Repeated calls for one key accumulate rows; Path keeps returning the first.
func (r *TransferRepo) SetFilePath(ctx context.Context, key model.TransferKey, path string) (int64, error) {
	conn, err := r.db.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	const q = `INSERT INTO transfers (account_id, conversation_id, tid, path) VALUES (?, ?, ?, ?)`
	res, err := conn.ExecContext(ctx, q, key.AccountID, key.ConversationID, key.TransferID, path)
	if err != nil {
		return 0, fmt.Errorf("insert path: %w", classify(err))
	}
	return res.LastInsertId()
}

// UpsertFilePath rewrites the row Path would return, or inserts one.
func (r *TransferRepo) UpsertFilePath(ctx context.Context, key model.TransferKey, path string) (id int64, err error) {
	conn, err := r.db.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", classify(err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			err = fmt.Errorf("commit: %w", classify(e))
		}
	}()

	var cur sql.NullString
	scanErr := tx.QueryRowContext(ctx, selectFirst, key.AccountID, key.ConversationID, key.TransferID).Scan(&id, &cur)
	switch {
	case scanErr == nil:
		const upd = `UPDATE transfers SET path=? WHERE id=?`
		if _, err = tx.ExecContext(ctx, upd, path, id); err != nil {
			return 0, fmt.Errorf("update path: %w", classify(err))
		}
		return id, nil
	case errors.Is(scanErr, sql.ErrNoRows):
		const ins = `INSERT INTO transfers (account_id, conversation_id, tid, path) VALUES (?, ?, ?, ?)`
		res, execErr := tx.ExecContext(ctx, ins, key.AccountID, key.ConversationID, key.TransferID, path)
		if execErr != nil {
			return 0, fmt.Errorf("insert path: %w", classify(execErr))
		}
		return res.LastInsertId()
	default:
		return 0, fmt.Errorf("select path: %w", classify(scanErr))
	}
}

// Count returns the number of rows recorded for key.
func (r *TransferRepo) Count(ctx context.Context, key model.TransferKey) (int, error) {
	conn, err := r.db.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	const q = `SELECT COUNT(*) FROM transfers WHERE account_id=? AND conversation_id=? AND tid=?`
	var n int
	if err := conn.QueryRowContext(ctx, q, key.AccountID, key.ConversationID, key.TransferID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count paths: %w", classify(err))
	}
	return n, nil
}

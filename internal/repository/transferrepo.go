// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/jami-localstate/internal/model"
)

// TransferRepository maps transfer keys to local file paths.
type TransferRepository interface {
	// Path returns the first recorded path for key; ok is false when none exists.
	Path(ctx context.Context, key model.TransferKey) (path string, ok bool, err error)
	// SetFilePath inserts a new row for key without checking for existing ones.
	SetFilePath(ctx context.Context, key model.TransferKey, path string) (int64, error)
	// UpsertFilePath replaces the first recorded path for key or inserts one.
	UpsertFilePath(ctx context.Context, key model.TransferKey, path string) (int64, error)
	// Count returns how many rows are recorded for key.
	Count(ctx context.Context, key model.TransferKey) (int, error)
}

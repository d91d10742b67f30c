// Package service wraps storage with validation, retries and degradation rules.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
	"github.com/and161185/jami-localstate/internal/repository"
)

// TransferService resolves and records local paths of file transfers.
type TransferService struct {
	repo    repository.TransferRepository
	log     *zap.Logger
	retries uint64
	backoff time.Duration
}

// Option configures a TransferService.
type Option func(*TransferService)

// WithRetries sets how many times a transient store error is retried.
func WithRetries(n uint64) Option {
	return func(s *TransferService) { s.retries = n }
}

// WithBackoff sets the base delay of the exponential retry backoff.
func WithBackoff(d time.Duration) Option {
	return func(s *TransferService) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// NewTransferService constructs TransferService. A nil logger disables logging.
func NewTransferService(repo repository.TransferRepository, log *zap.Logger, opts ...Option) *TransferService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &TransferService{repo: repo, log: log, retries: 3, backoff: 50 * time.Millisecond}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validate(key model.TransferKey) error {
	if !key.Valid() {
		return fmt.Errorf("validation: incomplete transfer key %q: %w", key.String(), errs.ErrInvalidArgument)
	}
	return nil
}

// do runs f, retrying transient store errors with exponential backoff.
func (s *TransferService) do(ctx context.Context, op string, key model.TransferKey, f func(context.Context) error) error {
	b := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := f(ctx)
		if errs.IsTransient(err) {
			s.log.Debug("transient store error",
				zap.String("op", op),
				zap.String("key", key.String()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

// Path returns the recorded path for key; ok is false when nothing was recorded.
func (s *TransferService) Path(ctx context.Context, key model.TransferKey) (path string, ok bool, err error) {
	if err := validate(key); err != nil {
		return "", false, err
	}
	err = s.do(ctx, "path", key, func(ctx context.Context) error {
		var e error
		path, ok, e = s.repo.Path(ctx, key)
		return e
	})
	if err != nil {
		return "", false, err
	}
	return path, ok, nil
}

// ResolvePath is Path with store failures reported as an unknown path.
func (s *TransferService) ResolvePath(ctx context.Context, key model.TransferKey) (string, bool) {
	path, ok, err := s.Path(ctx, key)
	if err != nil {
		s.log.Warn("transfer path unknown", zap.String("key", key.String()), zap.Error(err))
		return "", false
	}
	return path, ok
}

// SetFilePath records path for key as a new row and returns the row id.
func (s *TransferService) SetFilePath(ctx context.Context, key model.TransferKey, path string) (int64, error) {
	if err := validate(key); err != nil {
		return 0, err
	}
	var id int64
	err := s.do(ctx, "set", key, func(ctx context.Context) error {
		var e error
		id, e = s.repo.SetFilePath(ctx, key, path)
		return e
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("transfer path recorded", zap.String("key", key.String()), zap.Int64("id", id))
	return id, nil
}

// UpsertFilePath replaces the authoritative path for key, inserting if absent.
func (s *TransferService) UpsertFilePath(ctx context.Context, key model.TransferKey, path string) (int64, error) {
	if err := validate(key); err != nil {
		return 0, err
	}
	var id int64
	err := s.do(ctx, "upsert", key, func(ctx context.Context) error {
		var e error
		id, e = s.repo.UpsertFilePath(ctx, key, path)
		return e
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Duplicates returns how many rows beyond the first are stored for key.
func (s *TransferService) Duplicates(ctx context.Context, key model.TransferKey) (int, error) {
	if err := validate(key); err != nil {
		return 0, err
	}
	var n int
	err := s.do(ctx, "count", key, func(ctx context.Context) error {
		var e error
		n, e = s.repo.Count(ctx, key)
		return e
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return n - 1, nil
}

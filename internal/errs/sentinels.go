// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across registry/store/service layers.
var (
	// ErrNotFound indicates nothing is recorded for the requested key.
	ErrNotFound = errors.New("not found")

	// ErrIO indicates a filesystem read/open failure.
	ErrIO = errors.New("i/o failure")

	// ErrMalformedCard indicates a contact card that cannot be parsed.
	ErrMalformedCard = errors.New("malformed contact card")

	// ErrStoreBusy indicates a transient store failure (lock contention); safe to retry.
	ErrStoreBusy = errors.New("store busy")

	// ErrStoreCorrupt indicates the backing store file is damaged or not a database.
	ErrStoreCorrupt = errors.New("store corrupt")

	// ErrInvalidArgument indicates a request rejected before reaching storage.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreBusy)
}

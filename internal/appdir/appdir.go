// Package appdir resolves where per-account profiles and the transfer store live on disk.
package appdir

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	appName    = "jami"
	dbFileName = "jami-cli.db"
)

// Resolver locates the on-disk data used by the registry and the store.
type Resolver interface {
	// ProfilesDir returns the directory holding an account's contact cards.
	ProfilesDir(accountID string) (string, error)
	// TransferDB returns the path of the shared transfer database file.
	TransferDB() (string, error)
}

// XDG resolves paths under a base data directory.
// Empty Base means $XDG_DATA_HOME/jami, falling back to ~/.local/share/jami.
type XDG struct {
	Base string
}

// BaseDir returns the resolved application data directory.
func (x XDG) BaseDir() (string, error) {
	if x.Base != "" {
		return x.Base, nil
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// ProfilesDir returns <base>/<account>/profiles.
func (x XDG) ProfilesDir(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("appdir: empty account id")
	}
	base, err := x.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, accountID, "profiles"), nil
}

// TransferDB returns <base>/jami-cli.db.
func (x XDG) TransferDB() (string, error) {
	base, err := x.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, dbFileName), nil
}

// SnapshotPath returns where a registry snapshot for accountID is kept.
func (x XDG) SnapshotPath(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("appdir: empty account id")
	}
	base, err := x.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, accountID, "profiles.toml"), nil
}

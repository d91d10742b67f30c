package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
)

// SnapshotVersion is the only snapshot layout this package reads.
const SnapshotVersion = 1

type snapshot struct {
	Version  int             `toml:"version"`
	Profiles []model.Profile `toml:"profiles"`
}

// SaveSnapshot writes the registry to path as TOML using tmp+rename.
func (r *Registry) SaveSnapshot(path string) error {
	blob, err := toml.Marshal(snapshot{Version: SnapshotVersion, Profiles: r.Profiles()})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w: %w", errs.ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w: %w", errs.ErrIO, err)
	}
	return nil
}

// LoadSnapshot merges a snapshot written by SaveSnapshot. A missing file is a no-op.
// Snapshot entries replace registered profiles with the same URI.
func (r *Registry) LoadSnapshot(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w: %w", errs.ErrIO, err)
	}
	var snap snapshot
	if err := toml.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	for _, p := range snap.Profiles {
		if p.URI == "" {
			continue
		}
		r.profiles[p.URI] = p
	}
	return nil
}

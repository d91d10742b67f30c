// Package profile keeps the in-memory view of contact profiles for an account.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/and161185/jami-localstate/internal/appdir"
	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
)

// Registry maps contact URIs to profiles.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	dirs     appdir.Resolver
	log      *zap.Logger
	profiles map[string]model.Profile
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for best-effort diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs an empty registry that resolves account folders via dirs.
func New(dirs appdir.Resolver, opts ...Option) *Registry {
	r := &Registry{
		dirs:     dirs,
		log:      zap.NewNop(),
		profiles: make(map[string]model.Profile),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// LoadFromAccount loads every contact card stored for accountID.
// An unresolvable or missing profiles directory is not an error.
// The first card that fails to load aborts the call.
func (r *Registry) LoadFromAccount(accountID string) error {
	if r.dirs == nil {
		return nil
	}
	dir, err := r.dirs.ProfilesDir(accountID)
	if err != nil {
		r.log.Debug("profiles dir unresolved", zap.String("account", accountID), zap.Error(err))
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.log.Debug("profiles dir unreadable", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := r.LoadProfile(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	r.log.Debug("profiles loaded", zap.String("account", accountID), zap.Int("total", len(r.profiles)))
	return nil
}

// LoadProfile parses one contact card and merges it into the registry.
// A previously resolved username for the same URI is kept.
func (r *Registry) LoadProfile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open card %s: %w: %w", path, errs.ErrIO, err)
	}
	defer f.Close()

	p, err := ParseCard(f)
	if err != nil {
		return fmt.Errorf("card %s: %w", path, err)
	}
	r.merge(p)
	return nil
}

func (r *Registry) merge(p model.Profile) {
	if p.URI == "" {
		return
	}
	if cur, ok := r.profiles[p.URI]; ok {
		p.Username = cur.Username
	}
	r.profiles[p.URI] = p
}

// UsernameFound records a resolved username for uri, creating the profile if needed.
func (r *Registry) UsernameFound(uri, username string) {
	if uri == "" {
		return
	}
	p, ok := r.profiles[uri]
	if !ok {
		p = model.Profile{URI: uri}
	}
	p.Username = username
	r.profiles[uri] = p
}

// DisplayName returns the best name known for uri, or uri itself.
func (r *Registry) DisplayName(uri string) string {
	if p, ok := r.profiles[uri]; ok {
		return p.BestName()
	}
	return uri
}

// Profile returns the profile registered under uri.
func (r *Registry) Profile(uri string) (model.Profile, bool) {
	p, ok := r.profiles[uri]
	return p, ok
}

// Profiles returns all profiles ordered by URI.
func (r *Registry) Profiles() []model.Profile {
	out := make([]model.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int { return len(r.profiles) }

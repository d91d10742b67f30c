package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/jami-localstate/internal/appdir"
	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
)

type fakeDirs struct {
	dir string
	err error
}

var _ appdir.Resolver = fakeDirs{}

func (f fakeDirs) ProfilesDir(string) (string, error) { return f.dir, f.err }
func (f fakeDirs) TransferDB() (string, error)        { return "", errors.New("unused") }

func writeCard(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRegistry_LoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := writeCard(t, dir, "alice.vcf", "FN:Alice\nTELxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxAB1234567890\n")
	r := New(nil)

	require.NoError(t, r.LoadProfile(path))

	p, ok := r.Profile(aliceURI)
	require.True(t, ok)
	require.Equal(t, model.Profile{URI: aliceURI, DisplayName: "Alice"}, p)
	require.Equal(t, "Alice", r.DisplayName(aliceURI))
}

func TestRegistry_LoadProfile_EmptyURIDropped(t *testing.T) {
	path := writeCard(t, t.TempDir(), "nobody.vcf", "FN:Nobody\n")
	r := New(nil)

	require.NoError(t, r.LoadProfile(path))
	require.Equal(t, 0, r.Len())
}

func TestRegistry_LoadProfile_Missing(t *testing.T) {
	r := New(nil)
	err := r.LoadProfile(filepath.Join(t.TempDir(), "absent.vcf"))
	require.ErrorIs(t, err, errs.ErrIO)
}

func TestRegistry_ReloadKeepsUsername(t *testing.T) {
	path := writeCard(t, t.TempDir(), "alice.vcf", "FN:Alice\nTEL"+aliceURI+"\n")
	r := New(nil)

	require.NoError(t, r.LoadProfile(path))
	r.UsernameFound(aliceURI, "alice")
	require.NoError(t, r.LoadProfile(path))

	require.Equal(t, 1, r.Len())
	p, _ := r.Profile(aliceURI)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "Alice", p.DisplayName)
}

func TestRegistry_UsernameFound(t *testing.T) {
	r := New(nil)

	r.UsernameFound("uri-1", "bob")
	r.UsernameFound("uri-1", "bob")
	require.Equal(t, 1, r.Len())
	p, ok := r.Profile("uri-1")
	require.True(t, ok)
	require.Equal(t, model.Profile{URI: "uri-1", Username: "bob"}, p)
	require.Equal(t, "bob", r.DisplayName("uri-1"))

	r.UsernameFound("", "ghost")
	require.Equal(t, 1, r.Len())
}

func TestRegistry_UsernameFound_KeepsDisplayName(t *testing.T) {
	path := writeCard(t, t.TempDir(), "alice.vcf", "FN:Alice\nTEL"+aliceURI+"\n")
	r := New(nil)
	require.NoError(t, r.LoadProfile(path))

	r.UsernameFound(aliceURI, "alice")

	p, _ := r.Profile(aliceURI)
	require.Equal(t, "Alice", p.DisplayName)
	require.Equal(t, "Alice", r.DisplayName(aliceURI))
}

func TestRegistry_DisplayName_Unknown(t *testing.T) {
	r := New(nil)
	require.Equal(t, "unknown-uri", r.DisplayName("unknown-uri"))
}

func TestRegistry_LoadFromAccount(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acc", "profiles")
	bobURI := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	writeCard(t, dir, "a.vcf", "FN:Alice\nTEL"+aliceURI+"\n")
	writeCard(t, dir, "b.vcf", "FN:Bob\nTEL"+bobURI+"\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o700))

	r := New(fakeDirs{dir: dir})
	require.NoError(t, r.LoadFromAccount("acc"))

	require.Equal(t, 2, r.Len())
	require.Equal(t, "Alice", r.DisplayName(aliceURI))
	require.Equal(t, "Bob", r.DisplayName(bobURI))
	got := r.Profiles()
	require.Equal(t, aliceURI, got[1].URI)
	require.Equal(t, bobURI, got[0].URI)
}

func TestRegistry_LoadFromAccount_NoDirectory(t *testing.T) {
	r := New(fakeDirs{dir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, r.LoadFromAccount("acc"))
	require.Equal(t, 0, r.Len())

	r = New(fakeDirs{err: errors.New("no home")})
	require.NoError(t, r.LoadFromAccount("acc"))

	r = New(nil)
	require.NoError(t, r.LoadFromAccount("acc"))
}

func TestRegistry_LoadFromAccount_BadCard(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "bad.vcf", "TEL:short\n")

	r := New(fakeDirs{dir: dir})
	err := r.LoadFromAccount("acc")
	require.ErrorIs(t, err, errs.ErrMalformedCard)
}

func TestRegistry_LoadFromAccount_XDG(t *testing.T) {
	base := t.TempDir()
	writeCard(t, filepath.Join(base, "acc", "profiles"), "a.vcf", "FN:Alice\nTEL"+aliceURI+"\n")

	r := New(appdir.XDG{Base: base})
	require.NoError(t, r.LoadFromAccount("acc"))
	require.Equal(t, "Alice", r.DisplayName(aliceURI))
}

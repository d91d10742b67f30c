package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/jami-localstate/internal/errs"
)

const aliceURI = "xxxxxxxxxxxxxxxxxxxxxxxxxxxxAB1234567890"

func TestParseCard_FullNameAndTel(t *testing.T) {
	card := "BEGIN:VCARD\nVERSION:2.1\nFN:Alice\nTEL;other:ring:xxxxxx" + aliceURI + "\nEND:VCARD\n"

	p, err := ParseCard(strings.NewReader(card))
	require.NoError(t, err)
	require.Equal(t, "Alice", p.DisplayName)
	require.Equal(t, aliceURI, p.URI)
	require.Len(t, p.URI, URIWidth)
	require.Empty(t, p.Username)
}

func TestParseCard_CRLFAndNoTrailingNewline(t *testing.T) {
	card := "FN:Bob\r\nTEL" + aliceURI

	p, err := ParseCard(strings.NewReader(card))
	require.NoError(t, err)
	require.Equal(t, "Bob", p.DisplayName)
	require.Equal(t, aliceURI, p.URI)
}

func TestParseCard_LastLineWins(t *testing.T) {
	other := strings.Repeat("b", URIWidth)
	card := "FN:One\nFN:Two\nTEL:" + aliceURI + "\nTEL:" + other + "\n"

	p, err := ParseCard(strings.NewReader(card))
	require.NoError(t, err)
	require.Equal(t, "Two", p.DisplayName)
	require.Equal(t, other, p.URI)
}

func TestParseCard_IgnoresOtherLines(t *testing.T) {
	card := "N:Alice;;;\nPHOTO;ENCODING=BASE64:" + strings.Repeat("A", 200000) + "\nX-FN:nope\n"

	p, err := ParseCard(strings.NewReader(card))
	require.NoError(t, err)
	require.Empty(t, p.URI)
	require.Empty(t, p.DisplayName)
}

func TestParseCard_EmptyFullName(t *testing.T) {
	p, err := ParseCard(strings.NewReader("FN:\nTEL" + aliceURI))
	require.NoError(t, err)
	require.Empty(t, p.DisplayName)
	require.Equal(t, aliceURI, p.URI)
}

func TestParseCard_ShortTel(t *testing.T) {
	_, err := ParseCard(strings.NewReader("FN:Alice\nTEL:12345\n"))
	require.ErrorIs(t, err, errs.ErrMalformedCard)
}

func TestParseCard_InvalidUTF8(t *testing.T) {
	_, err := ParseCard(strings.NewReader("FN:\xff\xfe\n"))
	require.ErrorIs(t, err, errs.ErrMalformedCard)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseCard_ReadError(t *testing.T) {
	_, err := ParseCard(failingReader{})
	require.ErrorIs(t, err, errs.ErrIO)
}

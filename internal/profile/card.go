package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
)

const (
	prefixFullName = "FN:"
	prefixTel      = "TEL"

	// URIWidth is the fixed width of a contact URI at the end of a TEL line.
	URIWidth = 40
)

// ParseCard reads a contact card and extracts the FN and TEL fields.
// Any other line is ignored. The URI is the last URIWidth characters of
// the TEL line; a shorter TEL line makes the card malformed.
func ParseCard(r io.Reader) (model.Profile, error) {
	var p model.Profile
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return model.Profile{}, fmt.Errorf("read line %d: %w: %w", n, errs.ErrIO, err)
		}
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if !utf8.ValidString(line) {
				return model.Profile{}, fmt.Errorf("line %d: invalid utf-8: %w", n, errs.ErrMalformedCard)
			}
			switch {
			case strings.HasPrefix(line, prefixFullName):
				p.DisplayName = strings.TrimPrefix(line, prefixFullName)
			case strings.HasPrefix(line, prefixTel):
				runes := []rune(line)
				if len(runes) < URIWidth {
					return model.Profile{}, fmt.Errorf("line %d: TEL shorter than %d characters: %w", n, URIWidth, errs.ErrMalformedCard)
				}
				p.URI = string(runes[len(runes)-URIWidth:])
			}
		}
		if err != nil {
			return p, nil
		}
	}
}

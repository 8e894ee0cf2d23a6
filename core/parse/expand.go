package parse

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// expand performs the per-token word expansion steps: quote stripping,
// tilde substitution and glob matching. Every match becomes its own
// argument; a pattern with no matches is kept literally.
func (b *Builder) expand(tok string) ([]string, error) {
	tok = stripQuotes(tok)
	tok = b.expandTilde(tok)

	matches, err := afero.Glob(b.FS, tok)
	if err != nil {
		// filepath.ErrBadPattern, e.g. an unterminated character
		// class.
		return nil, err
	}
	if len(matches) == 0 {
		return []string{tok}, nil
	}
	return matches, nil
}

// stripQuotes removes one matching pair of surrounding quotes.
func stripQuotes(tok string) string {
	if len(tok) >= 2 {
		first, last := tok[0], tok[len(tok)-1]
		if first == last && (first == '"' || first == '\'') {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}

func (b *Builder) expandTilde(tok string) string {
	if b.Home == "" {
		return tok
	}
	if tok == "~" {
		return b.Home
	}
	if strings.HasPrefix(tok, "~/") {
		return filepath.Join(b.Home, tok[2:])
	}
	return tok
}

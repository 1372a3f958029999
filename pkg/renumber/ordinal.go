// Package renumber maintains the positional prefixes that control load order
// within a directory.
//
// A prefixed base name looks like "05_events.txt": a two character ordinal
// token, an underscore, then the rest of the name. Ordinals run 00 to 99,
// then 9a to 9z, then a0 to z9. Each step up in value is also a step up in
// byte order, so sorting names sorts ordinals. Two letter tokens are left out
// because they are ordinary words ("my_file.txt" has no prefix), which caps
// the sequence at z9.
package renumber

import (
	"fmt"
	"path"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/types"
)

// Ordinal is the value of a prefix token
type Ordinal int

const (
	// MinOrdinal is "00"
	MinOrdinal Ordinal = 0
	// MaxOrdinal is "z9"
	MaxOrdinal Ordinal = 385

	decimalEnd = 100 // first value past "99"
	nineEnd    = 126 // first value past "9z"
	letters    = "abcdefghijklmnopqrstuvwxyz"
)

// String returns the two character token for o
func (o Ordinal) String() string {
	switch {
	case o < MinOrdinal || o > MaxOrdinal:
		return fmt.Sprintf("!(%d)", int(o))
	case o < decimalEnd:
		return fmt.Sprintf("%02d", int(o))
	case o < nineEnd:
		return "9" + string(letters[o-decimalEnd])
	default:
		n := int(o - nineEnd)
		return string(letters[n/10]) + string(rune('0'+n%10))
	}
}

// ParseOrdinal decodes a two character token
func ParseOrdinal(token string) (Ordinal, error) {
	tok := strings.ToLower(token)
	if len(tok) != 2 {
		return 0, unexpected(token, "prefix tokens have two characters")
	}
	a, b := tok[0], tok[1]
	switch {
	case isDigit(a) && isDigit(b):
		return Ordinal((a-'0')*10 + (b - '0')), nil
	case a == '9' && isLetter(b):
		return decimalEnd + Ordinal(b-'a'), nil
	case isLetter(a) && isDigit(b):
		return nineEnd + Ordinal(a-'a')*10 + Ordinal(b-'0'), nil
	default:
		return 0, unexpected(token, "not a prefix ordinal")
	}
}

// Name is a path split around its prefix
type Name struct {
	// Dir is the directory part, empty at the package root
	Dir string
	// Rest is the base name without the prefix and its underscore
	Rest string
	// Ordinal is meaningful only when Prefixed is set
	Ordinal  Ordinal
	Prefixed bool
}

// Parse splits p into directory, prefix and rest. A two letter token is an
// ordinary word, so "my_file.txt" is unprefixed. A digit-led token that is
// not a valid ordinal is an ErrUnexpectedNaming error.
func Parse(p string) (Name, error) {
	p = types.NormalizePath(p)
	dir, base := path.Split(p)
	n := Name{Dir: strings.TrimSuffix(dir, "/"), Rest: base}

	tok, rest, found := strings.Cut(base, "_")
	if !found || tok == "" {
		return n, nil
	}

	switch {
	case isDigit(tok[0]):
		if len(tok) != 2 {
			return n, unexpected(p, "numeric prefixes have two characters")
		}
	case len(tok) == 2 && isLetter(lower(tok[0])) && isDigit(tok[1]):
	default:
		return n, nil
	}

	o, err := ParseOrdinal(tok)
	if err != nil {
		return n, errors.Wrapf(err, errors.ErrUnexpectedNaming, "%s has an invalid prefix", p).
			WithDetail("path", p)
	}
	n.Ordinal, n.Rest, n.Prefixed = o, rest, true
	return n, nil
}

// Path assembles the name back into a path
func (n Name) Path() string {
	base := n.Rest
	if n.Prefixed {
		base = n.Ordinal.String() + "_" + n.Rest
	}
	if n.Dir == "" {
		return base
	}
	return n.Dir + "/" + base
}

// At returns the name carrying ordinal o
func (n Name) At(o Ordinal) Name {
	n.Ordinal, n.Prefixed = o, true
	return n
}

// SiblingOf reports whether n and other differ at most by prefix.
// Comparison is case-insensitive.
func (n Name) SiblingOf(other Name) bool {
	return strings.EqualFold(n.Dir, other.Dir) && strings.EqualFold(n.Rest, other.Rest)
}

func unexpected(subject, reason string) error {
	return errors.Newf(errors.ErrUnexpectedNaming, "unexpected file naming %q: %s", subject, reason).
		WithDetail("path", subject)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

package types

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
)

// WildcardSymbol marks a version component that matches anything
const WildcardSymbol = "*"

// Component is one position of a version triple: a number or a wildcard
type Component struct {
	Value    int
	Wildcard bool
}

// Any is the wildcard component
var Any = Component{Wildcard: true}

// Num returns a concrete component
func Num(n int) Component {
	return Component{Value: n}
}

func (c Component) String() string {
	if c.Wildcard {
		return WildcardSymbol
	}
	return strconv.Itoa(c.Value)
}

// Version is a major.minor.patch triple describing which game versions a
// package supports
type Version [3]Component

// AnyVersion is the fully unconstrained version "*.*.*"
var AnyVersion = Version{Any, Any, Any}

// ParseVersion reads a dot-separated triple. Missing trailing components
// are wildcards; an empty string is AnyVersion.
func ParseVersion(s string) (Version, error) {
	v := AnyVersion
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return v, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > len(v) {
		return v, errors.Newf(errors.ErrInvalidInput, "version %q has more than three components", s)
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == WildcardSymbol {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, errors.Newf(errors.ErrInvalidInput, "version %q: component %q is neither a number nor %s", s, part, WildcardSymbol)
		}
		v[i] = Num(n)
	}
	return v, nil
}

// MustParseVersion is ParseVersion for literals known to be valid
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = c.String()
	}
	return strings.Join(parts, ".")
}

// MinVersion combines two triples position by position. A wildcard loses to
// any number at the same position. At the first position where both are
// numbers and differ the lower number wins and every later position becomes
// a wildcard.
func MinVersion(a, b Version) Version {
	var out Version
	for i := range a {
		x, y := a[i], b[i]
		switch {
		case x.Wildcard && y.Wildcard:
			out[i] = Any
		case x.Wildcard:
			out[i] = y
		case y.Wildcard:
			out[i] = x
		case x.Value == y.Value:
			out[i] = x
		default:
			out[i] = Num(min(x.Value, y.Value))
			for j := i + 1; j < len(out); j++ {
				out[j] = Any
			}
			return out
		}
	}
	return out
}

// MinVersions folds MinVersion over vs in order. No input yields AnyVersion.
func MinVersions(vs ...Version) Version {
	if len(vs) == 0 {
		return AnyVersion
	}
	out := vs[0]
	for _, v := range vs[1:] {
		out = MinVersion(out, v)
	}
	return out
}

// Package uris provides the identifier type the extraction engine keys
// everything on: archives, modules, symbols, documents and document elements.
//
// The engine treats a URI as an opaque, totally ordered, cheaply cloneable
// value with a parse function; the hierarchy below exists so that hosts and
// generators agree on a canonical shape. Parsed URIs are interned in a
// capacity-bounded pool (pool.go) so that comparing and cloning them stays
// cheap even in documents with tens of thousands of references.
package uris

import (
	"fmt"
	"strings"
)

// URI is one interned identifier. The zero value is the invalid URI.
//
// URIs are values; copying one is the "cheap clone" of the contract. Equality
// of interned URIs is pointer equality on the canonical string.
type URI struct {
	s *string
}

// Shape: <base>?a=<archive>[&p=<path>][&m=<module>[&s=<symbol>]]
//        <base>?a=<archive>[&p=<path>]&d=<document>[&l=<language>][&e=<element>]
// The base is a scheme://host prefix or a bare namespace token. Parameter
// order is fixed; Parse rejects unknown or out-of-order parameters.
var paramOrder = []string{"a", "p", "m", "s", "d", "l", "e"}

// Parse validates and interns a URI using the package-level pool.
func Parse(s string) (URI, error) {
	return defaultPool.Parse(s)
}

// Parse validates and interns a URI in this pool.
func (p *Pool) Parse(s string) (URI, error) {
	if err := validate(s); err != nil {
		return URI{}, err
	}
	return URI{s: p.intern(s)}, nil
}

func validate(s string) error {
	if s == "" {
		return fmt.Errorf("empty uri")
	}
	if strings.ContainsAny(s, " \t\n\r") {
		return fmt.Errorf("uri %q contains whitespace", s)
	}
	base, query, hasQuery := strings.Cut(s, "?")
	if base == "" {
		return fmt.Errorf("uri %q has no base", s)
	}
	if !hasQuery {
		return nil
	}
	last := -1
	seen := map[string]bool{}
	for part := range strings.SplitSeq(query, "&") {
		k, v, ok := strings.Cut(part, "=")
		if !ok || v == "" {
			return fmt.Errorf("uri %q: malformed parameter %q", s, part)
		}
		idx := -1
		for i, name := range paramOrder {
			if k == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("uri %q: unknown parameter %q", s, k)
		}
		if seen[k] {
			return fmt.Errorf("uri %q: repeated parameter %q", s, k)
		}
		if idx <= last {
			return fmt.Errorf("uri %q: parameter %q out of order", s, k)
		}
		seen[k] = true
		last = idx
	}
	if len(seen) > 0 && !seen["a"] {
		return fmt.Errorf("uri %q: missing archive parameter", s)
	}
	if seen["s"] && !seen["m"] {
		return fmt.Errorf("uri %q: symbol parameter requires module", s)
	}
	if seen["e"] && !seen["d"] {
		return fmt.Errorf("uri %q: element parameter requires document", s)
	}
	return nil
}

// IsValid reports whether u came from a successful Parse.
func (u URI) IsValid() bool { return u.s != nil }

// String returns the canonical text of the URI; empty for the zero value.
func (u URI) String() string {
	if u.s == nil {
		return ""
	}
	return *u.s
}

// Clone returns a copy. Present for symmetry with the engine contract; URI is
// a value type and plain assignment is equivalent.
func (u URI) Clone() URI { return u }

// MarshalText encodes the canonical string. Serialized notations and
// solutions carry URIs this way.
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses and re-interns the canonical string. Empty text
// decodes the zero URI.
func (u *URI) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*u = URI{}
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Compare orders two URIs by canonical byte order. The zero URI sorts first.
func (u URI) Compare(v URI) int {
	return strings.Compare(u.String(), v.String())
}

// Eq reports canonical equality.
func (u URI) Eq(v URI) bool {
	if u.s == v.s {
		return true
	}
	return u.String() == v.String()
}

func (u URI) param(name string) string {
	s := u.String()
	_, query, ok := strings.Cut(s, "?")
	if !ok {
		return ""
	}
	for part := range strings.SplitSeq(query, "&") {
		if k, v, ok := strings.Cut(part, "="); ok && k == name {
			return v
		}
	}
	return ""
}

// Name returns the most specific component: the symbol, element, document,
// module or archive name, in that order of preference, falling back to the
// base. Notations register under this leaf identity.
func (u URI) Name() string {
	for _, p := range []string{"s", "e", "d", "m", "a"} {
		if v := u.param(p); v != "" {
			if i := strings.LastIndexByte(v, '/'); i >= 0 {
				return v[i+1:]
			}
			return v
		}
	}
	base := u.String()
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		return base[i+1:]
	}
	return base
}

// Module returns the module component, if any.
func (u URI) Module() string { return u.param("m") }

// Symbol returns the symbol component, if any.
func (u URI) Symbol() string { return u.param("s") }

// InModule derives a symbol URI for name inside module URI u.
func (u URI) InModule(name string) (URI, error) {
	s := u.String()
	if s == "" {
		return URI{}, fmt.Errorf("deriving %q from invalid uri", name)
	}
	if !strings.Contains(s, "?") {
		// A bare base has no archive parameter; the base doubles as one.
		return Parse(s + "?a=" + s + "&m=" + name)
	}
	if u.param("m") == "" {
		return Parse(s + "&m=" + name)
	}
	return Parse(s + "&s=" + name)
}

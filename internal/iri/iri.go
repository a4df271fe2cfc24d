package iri

import (
	"net/url"
	"strings"
)

func EndsInGenDelim(s string) bool {
	if s == "" {
		return false
	}

	switch s[len(s)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	default:
		return false
	}
}

func IsBlankNode(s string) bool {
	return strings.HasPrefix(s, "_:")
}

// HasScheme reports whether s starts with an RFC 3986 scheme followed by a
// colon.
func HasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}

func IsRelative(s string) bool {
	u, err := url.Parse(s)
	return err == nil && !u.IsAbs()
}

func IsAbsolute(s string) bool {
	u, err := url.Parse(s)
	return err == nil &&
		u.IsAbs() &&
		(u.RawPath == "" || u.RawPath == u.EscapedPath()) &&
		(u.RawFragment == "" || u.RawFragment == u.EscapedFragment())
}

// IsIRI is a stricter form of IsAbsolute that requires s to survive a parse
// and serialise round trip unchanged.
func IsIRI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	ns := u.String()
	if strings.HasSuffix(s, "#") && !strings.HasSuffix(ns, "#") {
		ns = ns + "#"
	}

	return u.IsAbs() && s == ns
}

// Resolve resolves val against base. An empty base returns val unchanged.
func Resolve(base string, val string) (string, error) {
	r, err := url.Parse(val)
	if err != nil {
		return "", err
	}

	if base == "" {
		return val, nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	ref := u.ResolveReference(r)
	if val == "" {
		// an empty reference never inherits the fragment of the base
		ref.Fragment, ref.RawFragment = "", ""
	}

	res := ref.String()
	if strings.HasSuffix(val, "#") && !strings.HasSuffix(res, "#") {
		res = res + "#"
	}
	if strings.HasSuffix(val, "?") && !strings.HasSuffix(res, "?") {
		res = res + "?"
	}
	return res, nil
}

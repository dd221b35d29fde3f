package match

import (
	"strings"
)

// NormalizeName normalizes a JVM internal class name or member name for
// fuzzy matching. The package part is dropped, '$', '.' and '_' separators
// are removed and the result is lowercased.
//
//	net/minecraft/world/Entity$Pos -> entitypos
func NormalizeName(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}

	s = stripSeparators(s)

	return strings.ToLower(s)
}

// PackageOf returns the package part of an internal class name, without the
// trailing slash, or "" for the default package.
func PackageOf(s string) string {
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		return ""
	}

	return s[:i]
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '.', '_':
			return -1
		default:
			return r
		}
	}, s)
}

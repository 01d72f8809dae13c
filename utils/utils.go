// Package utils provides small helpers shared across mockingbird packages.
package utils

import "strings"

// EqualFoldASCII reports whether a and b are equal under ASCII case
// folding. Unlike strings.EqualFold it never applies Unicode folding,
// which header field names and DNS labels do not use.
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ContainsNonASCII checks if a string contains non-ASCII characters.
func ContainsNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return true
		}
	}
	return false
}

// ValidDNSName reports whether s is a syntactically plausible DNS name:
// one or more dot-separated labels, each 1 to 63 bytes of letters, digits
// or hyphens, not starting or ending with a hyphen, at most 253 bytes in
// total. A single trailing dot is tolerated. Underscore labels such as
// _dmarc are accepted since they are common in service records.
func ValidDNSName(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case 'a' <= c && c <= 'z':
		case 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

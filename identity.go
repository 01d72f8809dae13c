package mockingbird

import (
	"strings"

	"golang.org/x/net/idna"

	"github.com/synqronlabs/mockingbird/dkim"
	"github.com/synqronlabs/mockingbird/utils"
)

// SenderIdentity holds what a message's headers claim about its sender.
// Absent fields are empty strings.
type SenderIdentity struct {
	// FromAddress is the address matched in the From header, as written.
	FromAddress string `json:"from_address,omitempty"`

	// FromDomain is the domain the message claims to originate from,
	// lowercased. It is either empty or a syntactically valid DNS name.
	FromDomain string `json:"from_domain,omitempty"`

	// DKIMSelector is the s= tag of the first DKIM-Signature header.
	// Empty when the message carries no signature or the selector could
	// not name a DNS record.
	DKIMSelector string `json:"dkim_selector,omitempty"`

	// DKIMDomain is the d= tag of the first DKIM-Signature header.
	DKIMDomain string `json:"dkim_domain,omitempty"`
}

// ExtractIdentity pulls the claimed sender identity out of parsed
// headers. It never fails; whatever cannot be extracted stays empty.
//
// The From domain comes from the first From header only. Within its
// value the last angle-bracketed address wins; without angle brackets a
// bare address anchored at the start of the value is accepted. The
// domain is everything after the last @ (the whole match when it has
// none), lowercased, and is discarded unless it is usable as a DNS name.
//
// The DKIM selector and domain come from the s= and d= tags of the
// first DKIM-Signature header, matched by exact tag name in any order.
func ExtractIdentity(headers Headers) SenderIdentity {
	var id SenderIdentity

	if from := headers.Get("From"); from != "" {
		if addr, ok := fromAddress(from); ok {
			id.FromAddress = addr
			if domain, ok := addressDomain(addr); ok {
				id.FromDomain = domain
			}
		}
	}

	if sig := headers.Get("DKIM-Signature"); sig != "" {
		selector, domain := dkimTags(sig)
		if dkim.ValidSelector(selector) {
			id.DKIMSelector = selector
		}
		id.DKIMDomain = domain
	}

	return id
}

// fromAddress extracts the address a From value asserts. The last
// angle-bracketed run on the line wins; a value without usable angle
// brackets falls back to a bare address at the start of the value.
func fromAddress(value string) (string, bool) {
	if addr, ok := lastAngleAddr(value); ok {
		return addr, true
	}
	return bareAddress(value)
}

// lastAngleAddr finds the rightmost '<' followed by at least one
// character and a later '>', returning what sits between them.
func lastAngleAddr(value string) (string, bool) {
	for i := strings.LastIndexByte(value, '<'); i >= 0; i = strings.LastIndexByte(value[:i], '<') {
		rest := value[i+1:]
		if len(rest) < 2 {
			continue
		}
		if k := strings.IndexByte(rest[1:], '>'); k >= 0 {
			return rest[:k+1], true
		}
	}
	return "", false
}

// bareAddress matches a plain local@domain anchored at the start of the
// value: a limited local-part charset, an @, and a dotted domain ending
// in an alphabetic TLD of at least two characters. The domain is
// trimmed back to the longest prefix satisfying that shape, so trailing
// punctuation does not defeat the match.
func bareAddress(value string) (string, bool) {
	i := 0
	for i < len(value) && isLocalChar(value[i]) {
		i++
	}
	if i == 0 || i >= len(value) || value[i] != '@' {
		return "", false
	}

	j := i + 1
	for j < len(value) && isBareDomainChar(value[j]) {
		j++
	}
	run := value[i+1 : j]

	// Longest prefix of the run that ends in dot + two or more letters,
	// with at least one character before that dot.
	for k := len(run); k >= 4; k-- {
		a := trailingAlpha(run[:k])
		if a < 2 {
			continue
		}
		dot := k - a - 1
		if dot >= 1 && run[dot] == '.' {
			return value[:i+1] + run[:k], true
		}
	}
	return "", false
}

func isLocalChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.' || c == '_' || c == '%' || c == '+' || c == '-':
		return true
	}
	return false
}

func isBareDomainChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.' || c == '-':
		return true
	}
	return false
}

// trailingAlpha counts the letters at the end of s.
func trailingAlpha(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			n++
			continue
		}
		break
	}
	return n
}

// addressDomain returns the lowercased domain of an extracted address:
// everything after the last @, or the whole string when no @ is
// present. It is discarded unless usable as a DNS name, directly or
// through IDNA mapping.
func addressDomain(addr string) (string, bool) {
	domain := addr
	if at := strings.LastIndexByte(addr, '@'); at >= 0 {
		domain = addr[at+1:]
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || !utils.ValidDNSName(QueryDomain(domain)) {
		return "", false
	}
	return domain, true
}

// QueryDomain returns the form of domain used in DNS query names:
// internationalized domains are converted to their A-label (punycode)
// form, everything else passes through unchanged.
func QueryDomain(domain string) string {
	if !utils.ContainsNonASCII(domain) {
		return domain
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return domain
	}
	return ascii
}

// dkimTags scans a DKIM-Signature value for the s= and d= tags. The
// first occurrence of each wins; values end at the first semicolon or
// whitespace.
func dkimTags(value string) (selector, domain string) {
	for _, segment := range strings.Split(value, ";") {
		name, rest, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "s" && name != "d" {
			continue
		}

		val := strings.TrimSpace(rest)
		if i := strings.IndexAny(val, " \t"); i >= 0 {
			val = val[:i]
		}

		switch name {
		case "s":
			if selector == "" {
				selector = val
			}
		case "d":
			if domain == "" {
				domain = val
			}
		}
	}
	return selector, domain
}

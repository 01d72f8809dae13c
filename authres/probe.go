package authres

import (
	"context"
	"strings"

	"github.com/synqronlabs/mockingbird/dns"
)

// Probe describes one "query TXT, scan for a marker" check.
type Probe struct {
	// QueryName builds the DNS name to query for a given domain.
	// When nil the domain itself is queried.
	QueryName func(domain string) string

	// Marker is the token identifying the mechanism's record, e.g. "v=spf1".
	// Matching is case-sensitive and token-bounded, not substring.
	Marker string

	// OnFound is the status when a record carrying the marker exists.
	OnFound Status

	// OnAbsent is the status when no such record can be retrieved,
	// whatever the reason.
	OnAbsent Status
}

// Run queries TXT records for domain and scans them for the probe marker.
// DNS failures of any kind collapse into OnAbsent; the underlying error is
// returned alongside for logging and is always folded into the status.
func (p Probe) Run(ctx context.Context, resolver dns.Resolver, domain string) (Status, error) {
	name := domain
	if p.QueryName != nil {
		name = p.QueryName(domain)
	}

	result, err := resolver.LookupTXT(ctx, name)
	if err != nil {
		return p.OnAbsent, err
	}

	for _, record := range result.Records {
		if containsToken(record, p.Marker) {
			return p.OnFound, nil
		}
	}
	return p.OnAbsent, nil
}

// containsToken reports whether record contains token delimited by record
// boundaries, whitespace or ';'. A longer run like "v=spf10" does not
// match "v=spf1".
func containsToken(record, token string) bool {
	if token == "" {
		return false
	}

	for start := 0; ; {
		i := strings.Index(record[start:], token)
		if i < 0 {
			return false
		}
		i += start

		end := i + len(token)
		leftOK := i == 0 || isTokenDelim(record[i-1])
		rightOK := end == len(record) || isTokenDelim(record[end])
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isTokenDelim(c byte) bool {
	return c == ' ' || c == '\t' || c == ';'
}

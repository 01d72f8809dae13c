package dns

import (
	"context"
	"slices"
)

// MockResolver is a Resolver used for testing.
// Set DNS records in the TXT field, which maps FQDNs (with trailing dot) to values.
type MockResolver struct {
	TXT map[string][]string

	// Fail contains records that will return a temporary error (SERVFAIL).
	// Format: "type name", e.g. "txt example.com." where type is lowercase.
	Fail []string

	// Timeout contains records that will fail with ErrDNSTimeout.
	// Format: "type name", e.g. "txt example.com."
	Timeout []string

	// AllAuthentic sets the default value for Authentic in responses.
	// Overridden by Authentic and Inauthentic lists.
	AllAuthentic bool

	// Authentic contains records that will have Authentic=true.
	// Format: "type name", e.g. "txt example.com."
	Authentic []string

	// Inauthentic contains records that will have Authentic=false.
	// Format: "type name", e.g. "txt example.com."
	Inauthentic []string
}

var _ Resolver = MockResolver{}

// mockReq represents a mock DNS request.
type mockReq struct {
	Type string // E.g. "txt"
	Name string // FQDN with trailing dot
}

func (mr mockReq) String() string {
	return mr.Type + " " + mr.Name
}

// ensureFQDN ensures the name ends with a dot.
func ensureFQDN(name string) string {
	if len(name) == 0 || name[len(name)-1] != '.' {
		return name + "."
	}
	return name
}

// result checks for failures and returns the authentication status.
func (r MockResolver) result(ctx context.Context, mr mockReq) (Result[string], error) {
	result := Result[string]{Authentic: r.AllAuthentic}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Check for configured failures
	if slices.Contains(r.Fail, mr.String()) {
		return result, ErrDNSServFail
	}
	if slices.Contains(r.Timeout, mr.String()) {
		return result, ErrDNSTimeout
	}

	// Update authentic status
	if slices.Contains(r.Authentic, mr.String()) {
		result.Authentic = true
	}
	if slices.Contains(r.Inauthentic, mr.String()) {
		result.Authentic = false
	}

	return result, nil
}

// LookupTXT returns TXT records for the given domain.
func (r MockResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	fqdn := ensureFQDN(name)
	mr := mockReq{"txt", fqdn}

	result, err := r.result(ctx, mr)
	if err != nil {
		return result, err
	}

	records, ok := r.TXT[fqdn]
	if !ok || len(records) == 0 {
		return result, ErrDNSNotFound
	}

	result.Records = records
	return result, nil
}

// Package dns provides the resolver capability behind the mechanism
// checkers: TXT lookups with classified failure modes.
//
// Two production implementations are provided. DNSResolver speaks DNS
// directly via github.com/miekg/dns and supports custom nameservers,
// retries and DNSSEC validation. StdResolver delegates to the standard
// library resolver. MockResolver serves fixtures for tests.
//
// Implementations surface known failure modes as the package's sentinel
// errors (ErrDNSNotFound, ErrDNSTimeout, ErrDNSServFail) so callers can
// branch with errors.Is or the Is* helpers without caring which
// implementation produced them. An NXDOMAIN and a reply with no TXT
// records both surface as ErrDNSNotFound.
package dns

import (
	"context"
	"errors"
)

// Resolver performs DNS TXT lookups. Implementations must honor context
// cancellation and return the package's sentinel errors for classified
// failures.
type Resolver interface {
	// LookupTXT retrieves the TXT records published at name. The name may
	// be given with or without a trailing dot. Multi-string records are
	// joined into a single string per record. A successful reply carrying
	// no TXT records fails with ErrDNSNotFound.
	LookupTXT(ctx context.Context, name string) (Result[string], error)
}

// Result holds the records returned by a lookup along with their DNSSEC
// validation status.
type Result[T any] struct {
	// Records contains the returned records.
	Records []T

	// Authentic indicates the response was DNSSEC validated. Only
	// resolvers configured for DNSSEC ever set it.
	Authentic bool
}

var (
	// ErrDNSNotFound indicates the queried name does not exist (NXDOMAIN)
	// or exists without records of the requested type.
	ErrDNSNotFound = errors.New("dns: not found")

	// ErrDNSTimeout indicates the query exceeded its deadline.
	ErrDNSTimeout = errors.New("dns: timeout")

	// ErrDNSServFail indicates the upstream resolver reported SERVFAIL.
	ErrDNSServFail = errors.New("dns: server failure")

	// ErrDNSRefused indicates the upstream resolver refused the query.
	ErrDNSRefused = errors.New("dns: refused")

	// ErrDNSBogus indicates DNSSEC validation failed for the response.
	ErrDNSBogus = errors.New("dns: bogus dnssec validation")
)

// IsNotFound reports whether err indicates a missing name or record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether err indicates a query timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsServFail reports whether err indicates an upstream server failure.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether the query may succeed if retried.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrDNSTimeout) || errors.Is(err, ErrDNSServFail)
}

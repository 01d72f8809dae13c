package dmarc

import (
	"context"
	"fmt"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dns"
)

// Marker is the version token identifying a DMARC policy record.
const Marker = "v=DMARC1"

// QueryName returns the DNS name holding a domain's DMARC policy record.
func QueryName(domain string) string {
	return "_dmarc." + domain
}

// probe queries _dmarc.{domain}; absence is neutral, never a failure.
var probe = authres.Probe{
	QueryName: QueryName,
	Marker:    Marker,
	OnFound:   authres.StatusPass,
	OnAbsent:  authres.StatusNeutral,
}

// Check reports whether domain itself publishes a DMARC policy. The
// domain is queried exactly as given, with no organizational-domain
// fallback.
//
// A TXT record at _dmarc.{domain} carrying the v=DMARC1 token yields
// StatusPass; everything else, including every DNS failure mode, yields
// StatusNeutral. The returned error is the underlying DNS failure when
// one occurred. It is advisory, already folded into the result, and safe
// to ignore.
func Check(ctx context.Context, resolver dns.Resolver, domain string) (authres.Result, error) {
	status, err := probe.Run(ctx, resolver, domain)
	return authres.Result{Status: status, Detail: detail(status, domain)}, err
}

func detail(status authres.Status, domain string) string {
	if status == authres.StatusPass {
		return "A DMARC policy was found, which tells servers how to handle failures."
	}
	return fmt.Sprintf("No DMARC policy found for %s.", domain)
}

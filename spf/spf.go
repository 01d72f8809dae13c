package spf

import (
	"context"
	"fmt"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dns"
)

// Marker is the version token identifying an SPF record.
const Marker = "v=spf1"

// probe queries the domain apex; any form of absence counts against the
// sender.
var probe = authres.Probe{
	Marker:   Marker,
	OnFound:  authres.StatusPass,
	OnAbsent: authres.StatusFail,
}

// Check reports whether domain publishes an SPF policy.
//
// A TXT record at the domain apex carrying the v=spf1 token yields
// StatusPass; everything else yields StatusFail. The returned error is
// the underlying DNS failure when one occurred. It is advisory, already
// folded into the result, and safe to ignore.
func Check(ctx context.Context, resolver dns.Resolver, domain string) (authres.Result, error) {
	status, err := probe.Run(ctx, resolver, domain)
	return authres.Result{Status: status, Detail: detail(status, domain)}, err
}

func detail(status authres.Status, domain string) string {
	if status == authres.StatusPass {
		return fmt.Sprintf("An SPF policy was found for %s.", domain)
	}
	return fmt.Sprintf("No SPF policy found for %s. This makes spoofing easier.", domain)
}

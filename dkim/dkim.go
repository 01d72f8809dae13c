// Package dkim checks whether a DKIM public key is published for a
// signature's selector and domain, per RFC 6376.
//
// The check is a presence probe, not signature verification: it reports
// whether a key record carrying the v=DKIM1 token exists at
// {selector}._domainkey.{domain}. Verifying the signature itself would
// require canonicalizing the signed message body, which a header-only
// analysis cannot do.
//
// The selector comes from the message's DKIM-Signature header. A message
// without one makes no DKIM claim at all, so the check reports neutral
// and never queries DNS. Once a signature names a selector, a missing or
// unreachable key record is a broken claim and counts as a failure.
//
// References:
//   - RFC 6376: DomainKeys Identified Mail (DKIM) Signatures
package dkim

import (
	"context"
	"fmt"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dns"
	"github.com/synqronlabs/mockingbird/utils"
)

// Marker is the version token identifying a DKIM key record.
const Marker = "v=DKIM1"

// QueryName returns the DNS name holding the key record for a selector
// and domain.
func QueryName(selector, domain string) string {
	return selector + "._domainkey." + domain
}

// ValidSelector reports whether selector can name a key record. Selectors
// share DNS label syntax; anything else cannot be queried and is treated
// as no signature.
func ValidSelector(selector string) bool {
	return selector != "" && utils.ValidDNSName(selector)
}

// Check reports whether a public key record is published for the given
// selector and domain.
//
// An empty or invalid selector yields StatusNeutral without any DNS
// query. Otherwise a TXT record at {selector}._domainkey.{domain}
// carrying the v=DKIM1 token yields StatusPass, and anything else,
// including every DNS failure mode, yields StatusFail. The returned
// error is the underlying DNS failure when one occurred. It is advisory,
// already folded into the result, and safe to ignore.
func Check(ctx context.Context, resolver dns.Resolver, selector, domain string) (authres.Result, error) {
	if !ValidSelector(selector) {
		return authres.Result{
			Status: authres.StatusNeutral,
			Detail: "No DKIM signature was found in the email headers.",
		}, nil
	}

	probe := authres.Probe{
		QueryName: func(d string) string { return QueryName(selector, d) },
		Marker:    Marker,
		OnFound:   authres.StatusPass,
		OnAbsent:  authres.StatusFail,
	}

	status, err := probe.Run(ctx, resolver, domain)
	return authres.Result{Status: status, Detail: detail(status, domain)}, err
}

func detail(status authres.Status, domain string) string {
	if status == authres.StatusPass {
		return "A valid DKIM public key was found. The email signature can be verified."
	}
	return fmt.Sprintf("DKIM signature found, but no matching public key in DNS for %s.", domain)
}

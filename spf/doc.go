// Package spf checks whether a domain publishes a Sender Policy Framework
// (SPF) policy as described by RFC 7208.
//
// The check is a presence probe, not an evaluation. It reports whether a
// TXT record carrying the v=spf1 version token exists at the domain apex.
// Evaluating SPF mechanisms against a connecting IP requires the SMTP
// envelope and session, which a header-only analysis never sees.
//
// Absence is meaningful here: a domain without a reachable SPF policy is
// easier to spoof, so no record, NXDOMAIN, server failures and timeouts
// all count against the sender. The check never reports neutral.
//
// Basic usage:
//
//	resolver := dns.NewStdResolver()
//	result, _ := spf.Check(ctx, resolver, "example.com")
//	if result.Status == authres.StatusPass {
//	    // the domain publishes an SPF policy
//	}
//
// References:
//   - RFC 7208: Sender Policy Framework (SPF)
package spf

// Package dmarc checks whether a domain publishes a DMARC policy as
// described by RFC 7489.
//
// The check is a presence probe: it reports whether a TXT record
// carrying the v=DMARC1 token exists at _dmarc.{domain}. Policy terms
// (p=, sp=, pct=) are not interpreted; knowing a policy exists is what
// feeds the verdict.
//
// Check queries the extracted domain exactly and performs no
// organizational-domain fallback. The fallback exists for receivers
// evaluating subdomain mail flows; for spoof scoring, a subdomain whose
// organization publishes a policy but which resolves none itself simply
// gains no DMARC credit, and silently widening the query would report a
// policy the queried domain does not carry. OrganizationalDomain is
// still exported for callers that group per-organization.
//
// Unlike SPF, absence is neutral here, never a failure: DMARC adoption
// is far from universal and a missing policy says little on its own.
//
// References:
//   - RFC 7489: Domain-based Message Authentication, Reporting, and
//     Conformance (DMARC)
package dmarc

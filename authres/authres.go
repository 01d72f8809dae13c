// Package authres defines the shared result model for the sender
// authentication mechanisms and the DNS probe they are all built from.
//
// Each mechanism (SPF, DKIM, DMARC) publishes its policy as a TXT record
// carrying a version marker. A Probe captures the shape of one such check:
// where to query, which marker identifies the record, and which status
// absence maps to. The mechanism packages configure a Probe each and wrap
// it with their own detail strings.
package authres

// Status is the outcome of a single authentication mechanism check.
type Status string

const (
	// StatusPass indicates the mechanism's marker record was found.
	StatusPass Status = "pass"

	// StatusFail indicates the record could not be retrieved where the
	// mechanism treats absence as a failure.
	StatusFail Status = "fail"

	// StatusNeutral indicates the mechanism could not assert anything,
	// either because its inputs were missing or because absence carries
	// no penalty for it.
	StatusNeutral Status = "neutral"
)

// Result carries a mechanism's status together with a human-readable
// explanation suitable for end users.
type Result struct {
	Status Status `json:"status"`
	Detail string `json:"detail"`
}

package mockingbird

import (
	"encoding/json"

	"github.com/synqronlabs/mockingbird/authres"
)

// Category is the overall risk classification of an analyzed message.
type Category string

const (
	// CategoryLikelyLegitimate means the message passed DMARC together
	// with at least one of SPF or DKIM.
	CategoryLikelyLegitimate Category = "Likely Legitimate"

	// CategoryPotentiallyLegitimate means both SPF and DKIM passed but
	// no DMARC policy backs them up.
	CategoryPotentiallyLegitimate Category = "Potentially Legitimate"

	// CategoryHighRisk means SPF failed and DKIM could not vouch for
	// the message either.
	CategoryHighRisk Category = "High Risk of Spoofing"

	// CategorySuspicious covers every other mixed outcome.
	CategorySuspicious Category = "Suspicious"
)

// Verdict is the synthesized conclusion over the three mechanism results.
type Verdict struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// Synthesize reduces the three mechanism statuses to a single verdict.
// The rules are ordered and the first match wins:
//
//  1. DMARC pass together with an SPF or DKIM pass: the sender aligns
//     with a published enforcement policy.
//  2. SPF and DKIM both pass: authenticated, but nothing enforces it.
//  3. SPF fail while DKIM does not pass: nothing vouches for the message.
//  4. Anything else is suspicious.
//
// A DMARC pass without a passing mechanism deliberately falls through to
// the later rules: the policy alone proves nothing about this message.
func Synthesize(spf, dkim, dmarc authres.Status) Verdict {
	switch {
	case dmarc == authres.StatusPass && (spf == authres.StatusPass || dkim == authres.StatusPass):
		return Verdict{
			Category:    CategoryLikelyLegitimate,
			Description: "The email passes key authentication checks (DMARC alignment with SPF or DKIM). It is very likely from a legitimate source.",
		}
	case spf == authres.StatusPass && dkim == authres.StatusPass:
		return Verdict{
			Category:    CategoryPotentiallyLegitimate,
			Description: "The email passes both SPF and DKIM, but lacks a DMARC policy for enforcement. It is probably legitimate.",
		}
	case spf == authres.StatusFail && dkim != authres.StatusPass:
		return Verdict{
			Category:    CategoryHighRisk,
			Description: "The email fails SPF and does not have a valid DKIM signature. There is a high probability that this is a spoofed email.",
		}
	default:
		return Verdict{
			Category:    CategorySuspicious,
			Description: "The email fails one or more key authentication checks. Proceed with caution as this could be a spoofing attempt.",
		}
	}
}

// Report is the complete result of analyzing one message's headers.
//
// Reports are plain values carrying no timestamps or identifiers, so
// analyzing the same headers against the same DNS state produces
// byte-identical serializations.
type Report struct {
	// FromDomainFound records whether a usable From domain was
	// extracted. Always true in reports produced by Analyze, which
	// fails before reporting when no domain can be found.
	FromDomainFound bool `json:"from_domain_found"`

	// FromDomain is the claimed sender domain the checks ran against.
	FromDomain string `json:"from_domain"`

	SPF   authres.Result `json:"spf"`
	DKIM  authres.Result `json:"dkim"`
	DMARC authres.Result `json:"dmarc"`

	// Verdict is the synthesized conclusion.
	Verdict Verdict `json:"verdict"`
}

// ToJSON serializes the report to JSON bytes.
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ToJSONIndent serializes the report to pretty-printed JSON bytes.
func (r *Report) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON deserializes a report from JSON bytes.
func FromJSON(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

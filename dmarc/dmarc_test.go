package dmarc

import (
	"context"
	"testing"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dns"
)

func TestCheck(t *testing.T) {
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"_dmarc.example.com.":       {"v=DMARC1; p=reject; rua=mailto:agg@example.com"},
			"_dmarc.multi.example.com.": {"unrelated", "v=DMARC1; p=none"},
			"_dmarc.plain.example.com.": {"not a policy"},
		},
		Fail:    []string{"txt _dmarc.servfail.example.com."},
		Timeout: []string{"txt _dmarc.timeout.example.com."},
	}

	tests := []struct {
		name       string
		domain     string
		wantStatus authres.Status
		wantDetail string
	}{
		{
			name:       "policy published",
			domain:     "example.com",
			wantStatus: authres.StatusPass,
			wantDetail: "A DMARC policy was found, which tells servers how to handle failures.",
		},
		{
			name:       "policy among other records",
			domain:     "multi.example.com",
			wantStatus: authres.StatusPass,
			wantDetail: "A DMARC policy was found, which tells servers how to handle failures.",
		},
		{
			name:       "txt present without policy",
			domain:     "plain.example.com",
			wantStatus: authres.StatusNeutral,
			wantDetail: "No DMARC policy found for plain.example.com.",
		},
		{
			name:       "nxdomain",
			domain:     "missing.example.com",
			wantStatus: authres.StatusNeutral,
			wantDetail: "No DMARC policy found for missing.example.com.",
		},
		{
			name:       "server failure",
			domain:     "servfail.example.com",
			wantStatus: authres.StatusNeutral,
			wantDetail: "No DMARC policy found for servfail.example.com.",
		},
		{
			name:       "timeout",
			domain:     "timeout.example.com",
			wantStatus: authres.StatusNeutral,
			wantDetail: "No DMARC policy found for timeout.example.com.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := Check(context.Background(), resolver, tt.domain)
			if result.Status != tt.wantStatus {
				t.Errorf("status: got %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Detail != tt.wantDetail {
				t.Errorf("detail: got %q, want %q", result.Detail, tt.wantDetail)
			}
		})
	}
}

// A subdomain gains no credit from its organization's policy: the query
// targets the extracted domain exactly.
func TestCheckNoOrganizationalFallback(t *testing.T) {
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"_dmarc.example.com.": {"v=DMARC1; p=reject"},
		},
	}

	result, _ := Check(context.Background(), resolver, "mail.example.com")
	if result.Status != authres.StatusNeutral {
		t.Errorf("status: got %v, want %v", result.Status, authres.StatusNeutral)
	}
	if result.Detail != "No DMARC policy found for mail.example.com." {
		t.Errorf("detail: got %q", result.Detail)
	}
}

// Check never reports fail: a missing policy is not evidence of spoofing.
func TestCheckNeverFail(t *testing.T) {
	resolver := dns.MockResolver{
		Fail: []string{"txt _dmarc.fail.example.com."},
	}

	for _, domain := range []string{"missing.example.com", "fail.example.com"} {
		result, _ := Check(context.Background(), resolver, domain)
		if result.Status == authres.StatusFail {
			t.Errorf("Check(%s) returned fail", domain)
		}
	}
}

func TestQueryName(t *testing.T) {
	got := QueryName("example.com")
	if got != "_dmarc.example.com" {
		t.Errorf("QueryName: got %q, want %q", got, "_dmarc.example.com")
	}
}

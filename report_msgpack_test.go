package mockingbird

import (
	"bytes"
	"testing"

	"github.com/synqronlabs/mockingbird/authres"
)

func TestReportMessagePack(t *testing.T) {
	report := &Report{
		FromDomainFound: true,
		FromDomain:      "example.com",
		SPF: authres.Result{
			Status: authres.StatusPass,
			Detail: "An SPF policy was found for example.com.",
		},
		DKIM: authres.Result{
			Status: authres.StatusFail,
			Detail: "DKIM signature found, but no matching public key in DNS for example.com.",
		},
		DMARC: authres.Result{
			Status: authres.StatusPass,
			Detail: "A DMARC policy was found, which tells servers how to handle failures.",
		},
		Verdict: Synthesize(authres.StatusPass, authres.StatusFail, authres.StatusPass),
	}

	data, err := report.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ToMessagePack returned empty data")
	}

	decoded, err := FromMessagePack(data)
	if err != nil {
		t.Fatalf("FromMessagePack failed: %v", err)
	}

	if decoded.FromDomainFound != report.FromDomainFound {
		t.Errorf("Expected from_domain_found %v, got %v", report.FromDomainFound, decoded.FromDomainFound)
	}
	if decoded.FromDomain != report.FromDomain {
		t.Errorf("Expected from domain %q, got %q", report.FromDomain, decoded.FromDomain)
	}
	if decoded.SPF != report.SPF {
		t.Errorf("Expected SPF result %+v, got %+v", report.SPF, decoded.SPF)
	}
	if decoded.DKIM != report.DKIM {
		t.Errorf("Expected DKIM result %+v, got %+v", report.DKIM, decoded.DKIM)
	}
	if decoded.DMARC != report.DMARC {
		t.Errorf("Expected DMARC result %+v, got %+v", report.DMARC, decoded.DMARC)
	}
	if decoded.Verdict != report.Verdict {
		t.Errorf("Expected verdict %+v, got %+v", report.Verdict, decoded.Verdict)
	}

	// Compare wire sizes against JSON for the same report.
	jsonData, err := report.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	t.Logf("MessagePack size: %d bytes, JSON size: %d bytes, ratio: %.2f%%",
		len(data), len(jsonData), float64(len(data))/float64(len(jsonData))*100)
}

func TestReportMessagePackDeterministic(t *testing.T) {
	report := &Report{
		FromDomainFound: true,
		FromDomain:      "example.org",
		SPF:             authres.Result{Status: authres.StatusFail, Detail: "No SPF policy found for example.org. This makes spoofing easier."},
		DKIM:            authres.Result{Status: authres.StatusNeutral, Detail: "No DKIM signature was found in the email headers."},
		DMARC:           authres.Result{Status: authres.StatusNeutral, Detail: "No DMARC policy found for example.org."},
		Verdict:         Synthesize(authres.StatusFail, authres.StatusNeutral, authres.StatusNeutral),
	}

	first, err := report.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}
	second, err := report.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two serializations of the same report differ")
	}
}

func TestFromMessagePackInvalid(t *testing.T) {
	if _, err := FromMessagePack([]byte{0xc3}); err == nil {
		t.Error("Expected error for data that is not a map")
	}
	if _, err := FromMessagePack(nil); err == nil {
		t.Error("Expected error for empty data")
	}
}

func TestFromMessagePackSkipsUnknownFields(t *testing.T) {
	report := &Report{FromDomainFound: true, FromDomain: "example.net"}
	data, err := report.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}

	// Patch the map header from 6 to 7 entries and append an extra
	// string field a future writer might add.
	if data[0] != 0x86 {
		t.Fatalf("expected fixmap(6) header byte 0x86, got %#x", data[0])
	}
	data[0] = 0x87
	data = append(data, 0xa5, 'e', 'x', 't', 'r', 'a') // key "extra"
	data = append(data, 0xa2, 'h', 'i')                // value "hi"

	decoded, err := FromMessagePack(data)
	if err != nil {
		t.Fatalf("FromMessagePack with unknown field failed: %v", err)
	}
	if decoded.FromDomain != "example.net" {
		t.Errorf("Expected from domain %q, got %q", "example.net", decoded.FromDomain)
	}
}

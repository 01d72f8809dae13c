package mockingbird

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/synqronlabs/mockingbird/authres"
	"github.com/synqronlabs/mockingbird/dns"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAnalyzer(resolver dns.Resolver) *Analyzer {
	return New(Config{
		Resolver:     resolver,
		Logger:       discardLogger(),
		CheckTimeout: time.Second,
	})
}

// recordingResolver wraps a resolver and records every queried name.
type recordingResolver struct {
	inner dns.Resolver

	mu    sync.Mutex
	names []string
}

func (r *recordingResolver) LookupTXT(ctx context.Context, name string) (dns.Result[string], error) {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()
	return r.inner.LookupTXT(ctx, name)
}

func (r *recordingResolver) queried() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func TestAnalyzeInputErrors(t *testing.T) {
	analyzer := testAnalyzer(dns.MockResolver{})

	_, err := analyzer.Analyze(context.Background(), "")
	if !errors.Is(err, ErrEmptyHeaders) {
		t.Errorf("Expected ErrEmptyHeaders for empty input, got %v", err)
	}

	_, err = analyzer.Analyze(context.Background(), "Subject: no sender here\r\n")
	if !errors.Is(err, ErrNoFromDomain) {
		t.Errorf("Expected ErrNoFromDomain without a From header, got %v", err)
	}

	_, err = analyzer.Analyze(context.Background(), "From: not an address\r\n")
	if !errors.Is(err, ErrNoFromDomain) {
		t.Errorf("Expected ErrNoFromDomain for unparseable From, got %v", err)
	}
}

func TestAnalyzeVerdicts(t *testing.T) {
	tests := []struct {
		name         string
		headers      string
		resolver     dns.MockResolver
		wantSPF      authres.Status
		wantDKIM     authres.Status
		wantDMARC    authres.Status
		wantCategory Category
	}{
		{
			name: "likely legitimate",
			headers: "From: Alice <alice@example.com>\r\n" +
				"DKIM-Signature: v=1; a=rsa-sha256; s=sel; d=example.com; bh=abc\r\n",
			resolver: dns.MockResolver{
				TXT: map[string][]string{
					"example.com.":        {"v=spf1 include:_spf.example.com ~all"},
					"_dmarc.example.com.": {"v=DMARC1; p=reject"},
				},
			},
			wantSPF:      authres.StatusPass,
			wantDKIM:     authres.StatusFail,
			wantDMARC:    authres.StatusPass,
			wantCategory: CategoryLikelyLegitimate,
		},
		{
			name: "potentially legitimate",
			headers: "From: Alice <alice@example.com>\r\n" +
				"DKIM-Signature: v=1; a=rsa-sha256; s=sel; d=example.com; bh=abc\r\n",
			resolver: dns.MockResolver{
				TXT: map[string][]string{
					"example.com.":                {"v=spf1 -all"},
					"sel._domainkey.example.com.": {"v=DKIM1; k=rsa; p=MIGf"},
				},
			},
			wantSPF:      authres.StatusPass,
			wantDKIM:     authres.StatusPass,
			wantDMARC:    authres.StatusNeutral,
			wantCategory: CategoryPotentiallyLegitimate,
		},
		{
			name:         "high risk of spoofing",
			headers:      "From: Mallory <mallory@example.com>\r\n",
			resolver:     dns.MockResolver{},
			wantSPF:      authres.StatusFail,
			wantDKIM:     authres.StatusNeutral,
			wantDMARC:    authres.StatusNeutral,
			wantCategory: CategoryHighRisk,
		},
		{
			name: "suspicious",
			headers: "From: Alice <alice@example.com>\r\n" +
				"DKIM-Signature: v=1; a=rsa-sha256; s=sel; d=example.com; bh=abc\r\n",
			resolver: dns.MockResolver{
				TXT: map[string][]string{
					"sel._domainkey.example.com.": {"v=DKIM1; k=rsa; p=MIGf"},
				},
			},
			wantSPF:      authres.StatusFail,
			wantDKIM:     authres.StatusPass,
			wantDMARC:    authres.StatusNeutral,
			wantCategory: CategorySuspicious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := testAnalyzer(tt.resolver)

			report, err := analyzer.Analyze(context.Background(), tt.headers)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}

			if !report.FromDomainFound {
				t.Error("Expected from_domain_found to be true")
			}
			if report.FromDomain != "example.com" {
				t.Errorf("Expected from domain %q, got %q", "example.com", report.FromDomain)
			}
			if report.SPF.Status != tt.wantSPF {
				t.Errorf("SPF status: got %s, want %s", report.SPF.Status, tt.wantSPF)
			}
			if report.DKIM.Status != tt.wantDKIM {
				t.Errorf("DKIM status: got %s, want %s", report.DKIM.Status, tt.wantDKIM)
			}
			if report.DMARC.Status != tt.wantDMARC {
				t.Errorf("DMARC status: got %s, want %s", report.DMARC.Status, tt.wantDMARC)
			}
			if report.Verdict.Category != tt.wantCategory {
				t.Errorf("Verdict: got %q, want %q", report.Verdict.Category, tt.wantCategory)
			}
		})
	}
}

func TestAnalyzeDetails(t *testing.T) {
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"example.com.": {"v=spf1 -all"},
		},
	}
	analyzer := testAnalyzer(resolver)

	report, err := analyzer.Analyze(context.Background(), "From: alice@example.com\r\n")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if want := "An SPF policy was found for example.com."; report.SPF.Detail != want {
		t.Errorf("SPF detail: got %q, want %q", report.SPF.Detail, want)
	}
	if want := "No DKIM signature was found in the email headers."; report.DKIM.Detail != want {
		t.Errorf("DKIM detail: got %q, want %q", report.DKIM.Detail, want)
	}
	if want := "No DMARC policy found for example.com."; report.DMARC.Detail != want {
		t.Errorf("DMARC detail: got %q, want %q", report.DMARC.Detail, want)
	}
}

func TestAnalyzeDKIMDomainOverride(t *testing.T) {
	// The signature names a d= domain different from the From domain;
	// the key must be looked up under the signer's domain.
	headers := "From: alice@example.com\r\n" +
		"DKIM-Signature: v=1; a=rsa-sha256; s=mail; d=signer.example; bh=abc\r\n"
	resolver := &recordingResolver{inner: dns.MockResolver{
		TXT: map[string][]string{
			"mail._domainkey.signer.example.": {"v=DKIM1; k=rsa; p=MIGf"},
		},
	}}
	analyzer := testAnalyzer(resolver)

	report, err := analyzer.Analyze(context.Background(), headers)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.DKIM.Status != authres.StatusPass {
		t.Errorf("DKIM status: got %s, want %s", report.DKIM.Status, authres.StatusPass)
	}
	for _, name := range resolver.queried() {
		if strings.Contains(name, "_domainkey.example.com") {
			t.Errorf("DKIM key queried under the From domain: %q", name)
		}
	}
}

func TestAnalyzeNoSignatureNoKeyQuery(t *testing.T) {
	resolver := &recordingResolver{inner: dns.MockResolver{}}
	analyzer := testAnalyzer(resolver)

	report, err := analyzer.Analyze(context.Background(), "From: alice@example.com\r\n")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.DKIM.Status != authres.StatusNeutral {
		t.Errorf("DKIM status: got %s, want %s", report.DKIM.Status, authres.StatusNeutral)
	}
	for _, name := range resolver.queried() {
		if strings.Contains(name, "_domainkey") {
			t.Errorf("Resolver queried %q without a signature present", name)
		}
	}
}

func TestAnalyzeDNSTrouble(t *testing.T) {
	// Lookup failures count against the sender but never fail the call.
	resolver := dns.MockResolver{
		Fail:    []string{"txt example.com."},
		Timeout: []string{"txt _dmarc.example.com."},
	}
	analyzer := testAnalyzer(resolver)

	report, err := analyzer.Analyze(context.Background(), "From: alice@example.com\r\n")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.SPF.Status != authres.StatusFail {
		t.Errorf("SPF status on SERVFAIL: got %s, want %s", report.SPF.Status, authres.StatusFail)
	}
	if report.DMARC.Status != authres.StatusNeutral {
		t.Errorf("DMARC status on timeout: got %s, want %s", report.DMARC.Status, authres.StatusNeutral)
	}
	if report.Verdict.Category != CategoryHighRisk {
		t.Errorf("Verdict: got %q, want %q", report.Verdict.Category, CategoryHighRisk)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := testAnalyzer(dns.MockResolver{
		TXT: map[string][]string{"example.com.": {"v=spf1 -all"}},
	})

	_, err := analyzer.Analyze(ctx, "From: alice@example.com\r\n")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeInternationalizedDomain(t *testing.T) {
	// Queries go out in A-label form; the report keeps the display form.
	resolver := &recordingResolver{inner: dns.MockResolver{
		TXT: map[string][]string{
			"xn--bcher-kva.example.": {"v=spf1 -all"},
		},
	}}
	analyzer := testAnalyzer(resolver)

	report, err := analyzer.Analyze(context.Background(), "From: <alice@bücher.example>\r\n")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.FromDomain != "bücher.example" {
		t.Errorf("Expected display-form domain, got %q", report.FromDomain)
	}
	if report.SPF.Status != authres.StatusPass {
		t.Errorf("SPF status: got %s, want %s", report.SPF.Status, authres.StatusPass)
	}
	for _, name := range resolver.queried() {
		if strings.ContainsRune(name, 'ü') {
			t.Errorf("Resolver received a non-ASCII query name: %q", name)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	headers := "From: Alice <alice@example.com>\r\n" +
		"DKIM-Signature: v=1; a=rsa-sha256; s=sel; d=example.com; bh=abc\r\n"
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"example.com.":                {"v=spf1 -all"},
			"sel._domainkey.example.com.": {"v=DKIM1; k=rsa; p=MIGf"},
			"_dmarc.example.com.":         {"v=DMARC1; p=none"},
		},
	}
	analyzer := testAnalyzer(resolver)

	first, err := analyzer.Analyze(context.Background(), headers)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := analyzer.Analyze(context.Background(), headers)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	firstJSON, err := first.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	secondJSON, err := second.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("JSON reports differ:\n%s\n%s", firstJSON, secondJSON)
	}

	firstPack, err := first.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}
	secondPack, err := second.ToMessagePack()
	if err != nil {
		t.Fatalf("ToMessagePack failed: %v", err)
	}
	if !bytes.Equal(firstPack, secondPack) {
		t.Error("MessagePack reports differ")
	}
}

func TestNewDefaults(t *testing.T) {
	analyzer := New(Config{})

	if analyzer.resolver == nil {
		t.Error("Expected default resolver")
	}
	if analyzer.logger == nil {
		t.Error("Expected default logger")
	}
	if analyzer.timeout != DefaultCheckTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultCheckTimeout, analyzer.timeout)
	}
}

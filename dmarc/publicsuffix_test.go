package dmarc

import "testing"

func TestOrganizationalDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"already organizational", "example.com", "example.com"},
		{"subdomain", "mail.example.com", "example.com"},
		{"deep subdomain", "a.b.mail.example.com", "example.com"},
		{"multi-part public suffix", "sub.example.co.uk", "example.co.uk"},
		{"trailing dot stripped", "mail.example.com.", "example.com"},
		{"uppercase normalized", "Mail.Example.COM", "example.com"},
		{"bare host kept as-is", "localhost", "localhost"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrganizationalDomain(tt.domain); got != tt.want {
				t.Errorf("OrganizationalDomain(%q) = %q, want %q", tt.domain, got, tt.want)
			}
		})
	}
}

package mockingbird

import (
	"strings"

	"github.com/synqronlabs/mockingbird/utils"
)

// Header represents a single message header field.
type Header struct {
	// Name is the header field name (e.g., "From", "DKIM-Signature").
	Name string `json:"name"`
	// Value is the header field value, unfolded.
	Value string `json:"value"`
}

// Headers is a collection of message headers with helper methods.
type Headers []Header

// Get returns the first header value with the given name (case-insensitive).
func (h Headers) Get(name string) string {
	for _, hdr := range h {
		if utils.EqualFoldASCII(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// GetAll returns all header values with the given name (case-insensitive).
func (h Headers) GetAll(name string) []string {
	var values []string
	for _, hdr := range h {
		if utils.EqualFoldASCII(hdr.Name, name) {
			values = append(values, hdr.Value)
		}
	}
	return values
}

// ParseHeaderBlock parses raw header text into Headers per RFC 5322.
//
// The input is a message's header section, or a full message whose header
// section ends at the first empty line; anything past that line is
// ignored. Both CRLF and bare LF line endings are accepted, since header
// text usually arrives here through copy-paste or a JSON field rather
// than off the wire. Folded headers (continuation lines starting with
// space or tab) are unfolded with a single space. Lines without a colon
// are skipped, and a continuation without a preceding field is dropped.
func ParseHeaderBlock(raw string) Headers {
	headers := make(Headers, 0, 8)

	var currentName, currentValue string
	flush := func() {
		if currentName != "" {
			headers = append(headers, Header{Name: currentName, Value: currentValue})
		}
		currentName, currentValue = "", ""
	}

	for line := range strings.Lines(raw) {
		line = strings.TrimRight(line, "\r\n")

		// Empty line ends the header section
		if line == "" {
			break
		}

		// Continuation of the previous header (folded per RFC 5322)
		if line[0] == ' ' || line[0] == '\t' {
			if currentName != "" {
				currentValue += " " + strings.TrimSpace(line)
			}
			continue
		}

		flush()

		if name, value, found := strings.Cut(line, ":"); found {
			currentName = strings.TrimSpace(name)
			currentValue = strings.TrimSpace(value)
		}
	}
	flush()

	return headers
}

package mockingbird

import (
	"reflect"
	"testing"
)

func TestParseHeaderBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Headers
	}{
		{
			name: "crlf endings",
			raw:  "From: a@example.com\r\nSubject: hi\r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
				{Name: "Subject", Value: "hi"},
			},
		},
		{
			name: "bare lf endings",
			raw:  "From: a@example.com\nSubject: hi",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
				{Name: "Subject", Value: "hi"},
			},
		},
		{
			name: "folded header unfolds with single space",
			raw:  "DKIM-Signature: v=1; a=rsa-sha256;\r\n\ts=selector; d=example.com;\r\n bh=abc\r\n",
			want: Headers{
				{Name: "DKIM-Signature", Value: "v=1; a=rsa-sha256; s=selector; d=example.com; bh=abc"},
			},
		},
		{
			name: "body after blank line ignored",
			raw:  "From: a@example.com\r\n\r\nFrom: b@example.com\r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
			},
		},
		{
			name: "line without colon skipped",
			raw:  "garbage line\r\nFrom: a@example.com\r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
			},
		},
		{
			name: "continuation after malformed line dropped",
			raw:  "garbage line\r\n continued\r\nFrom: a@example.com\r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
			},
		},
		{
			name: "leading continuation dropped",
			raw:  " orphan\r\nFrom: a@example.com\r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
			},
		},
		{
			name: "whitespace around name and value trimmed",
			raw:  "From : \t a@example.com \r\n",
			want: Headers{
				{Name: "From", Value: "a@example.com"},
			},
		},
		{
			name: "value with colons kept intact",
			raw:  "Received: from mx1 (unknown [192.0.2.1]); Mon, 6 Jan 2025 10:00:00 +0000\r\n",
			want: Headers{
				{Name: "Received", Value: "from mx1 (unknown [192.0.2.1]); Mon, 6 Jan 2025 10:00:00 +0000"},
			},
		},
		{
			name: "empty input",
			raw:  "",
			want: Headers{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeaderBlock(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHeaderBlock() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHeadersGet(t *testing.T) {
	headers := Headers{
		{Name: "Received", Value: "first hop"},
		{Name: "FROM", Value: "a@example.com"},
		{Name: "From", Value: "b@example.com"},
		{Name: "received", Value: "second hop"},
	}

	if got := headers.Get("from"); got != "a@example.com" {
		t.Errorf("Get(from) = %q, want first match %q", got, "a@example.com")
	}
	if got := headers.Get("Reply-To"); got != "" {
		t.Errorf("Get(Reply-To) = %q, want empty", got)
	}

	all := headers.GetAll("RECEIVED")
	if len(all) != 2 || all[0] != "first hop" || all[1] != "second hop" {
		t.Errorf("GetAll(RECEIVED) = %v", all)
	}
}

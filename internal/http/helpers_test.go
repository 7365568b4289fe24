package http

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-06-10", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), false},
		{"2025-06-10T15:04:05Z", time.Date(2025, 6, 10, 15, 4, 5, 0, time.UTC), false},
		{" 2025-06-10 ", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), false},
		{"10/06/2025", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keep\ttabs\nand newlines", "keep\ttabs\nand newlines"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	if !strings.HasPrefix(a, "req_") {
		t.Errorf("expected req_ prefix, got %q", a)
	}
	if a == b {
		t.Error("expected unique request ids")
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/accounts/abc", "abc"},
		{"/api/accounts/abc/", "abc"},
		{"/api/accounts/", ""},
	}
	for _, tt := range tests {
		if got := pathID(tt.path, "/api/accounts/"); got != tt.want {
			t.Errorf("pathID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

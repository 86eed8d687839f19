package http

import (
	"net/http/httptest"
	"testing"
)

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		name     string
		origin   string
		patterns []string
		want     bool
	}{
		{"no origin header", "", []string{"http://localhost:*"}, true},
		{"exact match", "http://localhost:3000", []string{"http://localhost:3000"}, true},
		{"wildcard port", "http://localhost:3000", []string{"http://localhost:*"}, true},
		{"case insensitive", "HTTP://LocalHost:3000", []string{"http://localhost:*"}, true},
		{"admit all", "http://anything.example.com", []string{"*"}, true},
		{"mismatch", "http://evil.example.com", []string{"http://localhost:*"}, false},
		{"scheme mismatch", "https://localhost:3000", []string{"http://localhost:*"}, false},
		{"no patterns", "http://localhost:3000", nil, false},
		{"garbage origin", "://not-a-url", []string{"*"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := originAllowed(r, tc.patterns); got != tc.want {
				t.Fatalf("originAllowed(%q, %v) = %v, want %v", tc.origin, tc.patterns, got, tc.want)
			}
		})
	}
}

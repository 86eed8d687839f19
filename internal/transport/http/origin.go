package http

import (
	stdhttp "net/http"
	"net/url"
	"path"
	"strings"
)

// originAllowed enforces the admission policy before authentication
// runs. Requests without an Origin header (non-browser clients) are
// admitted; anything else must match a configured pattern, e.g.
// "http://localhost:*" or "https://app.example.com". "*" admits all.
func originAllowed(r *stdhttp.Request, patterns []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}

	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if pattern == "*" || pattern == normalized {
			return true
		}
		if matched, err := path.Match(pattern, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

package activity

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// userNameFilterRe matches `userName eq "<value>"` with optional quoting.
var userNameFilterRe = regexp.MustCompile(`(?i)^\s*username\s+eq\s+(?:"([^"]*)"|'([^']*)'|(\S+))\s*$`)

// IsKeepalive reports whether a request looks like the synthetic polling
// probe identity providers send to check endpoint liveness: an anonymous,
// successful GET on /Users filtering for a single user whose userName is a
// bare UUID. Real provisioning traffic never filters on a UUID userName.
func IsKeepalive(method, rawURL, identifier string, status int) bool {
	if !strings.EqualFold(method, "GET") {
		return false
	}
	if strings.TrimSpace(identifier) != "" {
		return false
	}
	if status >= 400 {
		return false
	}

	path, query := splitURL(rawURL)
	if !strings.Contains(path, "/Users") {
		return false
	}

	filter, ok := filterParam(query)
	if !ok {
		return false
	}
	m := userNameFilterRe.FindStringSubmatch(filter)
	if m == nil {
		return false
	}
	value := m[1]
	if value == "" {
		value = m[2]
	}
	if value == "" {
		value = m[3]
	}

	// Strict 8-4-4-4-12 form only; uuid.Parse alone would also accept
	// braced and urn: variants.
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// splitURL separates path and raw query without requiring a parseable URL
func splitURL(rawURL string) (path, query string) {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path, u.RawQuery
	}
	path, query, _ = strings.Cut(rawURL, "?")
	return path, query
}

// filterParam finds the first filter/Filter/FILTER query parameter and
// returns its decoded value. Decoding failure falls back to the raw value.
func filterParam(rawQuery string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != "filter" && key != "Filter" && key != "FILTER" {
			continue
		}
		value = strings.ReplaceAll(value, "+", " ")
		if decoded, err := url.QueryUnescape(value); err == nil {
			return decoded, true
		}
		return value, true
	}
	return "", false
}

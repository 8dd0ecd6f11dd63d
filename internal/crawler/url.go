package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var productIDPattern = regexp.MustCompile(`-(\d+)/?$`)

// NormalizeURL standardizes a URL into the canonical form used as the dedup
// key. It lowercases the scheme and host, strips default ports and fragments,
// and sorts query parameters.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.RawQuery = u.Query().Encode()

	return u.String(), nil
}

// ProductIDFromURL extracts the numeric product identifier from the trailing
// segment of a canonical product URL ("...-arrosoir-ivoire-40394118/" gives
// "40394118"). It returns the empty string when no identifier is present.
func ProductIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	m := productIDPattern.FindStringSubmatch(strings.TrimSuffix(u.Path, "/") + "/")
	if m == nil {
		return ""
	}
	return m[1]
}

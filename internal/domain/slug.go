package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)
	schemeRe      = regexp.MustCompile(`^https?://(www\.)?`)
)

// Slugify derives a deterministic URL-safe identifier from a title:
// lowercase, runs of non-alphanumerics collapsed to a single hyphen,
// leading/trailing hyphens stripped.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// StripScheme removes the scheme and a leading "www." from a URL,
// leaving a human-readable fallback title.
func StripScheme(rawURL string) string {
	return schemeRe.ReplaceAllString(rawURL, "")
}

// NormalizeURL prefixes https:// when the scheme is missing.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	if !strings.HasPrefix(strings.ToLower(rawURL), "http://") &&
		!strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

// Hostname extracts the host part of a URL, or "" when unparseable.
func Hostname(rawURL string) string {
	u, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

package naver

import (
	"net/url"
	"regexp"
	"strings"
)

// Place ID patterns seen across Naver map URL variants:
// /p/search/.../place/123, /p/entry/place/123, .../restaurant/123.
var placeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/entry/place/(\d+)`),
	regexp.MustCompile(`/place/(\d+)`),
	regexp.MustCompile(`/restaurant/(\d+)`),
}

// Query parameters safe to keep when a place id cannot be extracted.
var safeQueryParams = []string{"c", "searchCoord"}

// IsListingURL reports whether the URL plausibly points at a Naver map
// listing (including naver.me short links).
func IsListingURL(raw string) bool {
	return strings.Contains(raw, "map.naver.com") || strings.Contains(raw, "naver.me")
}

// CleanURL rewrites the many Naver map URL shapes into the canonical entry
// form when a place id is present, and otherwise strips query parameters that
// break direct fetching (nested placePath payloads and the like).
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)

	for _, pattern := range placeIDPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return "https://map.naver.com/p/entry/place/" + m[1]
		}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.RawQuery == "" {
		return raw
	}

	query := parsed.Query()
	kept := url.Values{}
	for _, key := range safeQueryParams {
		if v := query.Get(key); v != "" {
			kept.Set(key, v)
		}
	}
	parsed.RawQuery = kept.Encode()
	return parsed.String()
}

// PlaceID extracts the numeric place id, or "" when none is present.
func PlaceID(raw string) string {
	for _, pattern := range placeIDPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return ""
}

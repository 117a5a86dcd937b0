package crawler

import (
	"context"
	"errors"
)

// ErrExtractionFailed means the source page could not be loaded or recognized
// as a listing: network failure, unexpected markup, or a URL that is not a
// listing URL at all.
var ErrExtractionFailed = errors.New("failed to extract listing")

// RawListing is the untrusted output of one extraction. Every field is carried
// as scraped; validation and reshaping happen in the store normalizer.
type RawListing struct {
	Name          string
	Address       string
	Phone         string
	Category      string
	BusinessHours string
	ImageURL      string
	Menus         []RawMenu
}

// RawMenu carries prices as scraped text (e.g. "12,000원"); the normalizer
// decides what parses into a valid price.
type RawMenu struct {
	Name          string
	Price         string
	OriginalPrice string
	Description   string
	ImageURL      string
}

// Extractor drives one listing extraction per call. Implementations own their
// session state; concurrent calls must be independent.
type Extractor interface {
	Extract(ctx context.Context, listingURL string) (*RawListing, error)
}

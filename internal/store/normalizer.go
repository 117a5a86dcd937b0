package store

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vroong/store-onboarding-service/internal/crawler"
	"github.com/vroong/store-onboarding-service/internal/model"
)

// Normalize validates and reshapes raw extractor output into a StoreInfo.
// It fails with ErrExtractionIncomplete when name or address is empty. Menu
// entries whose price does not parse to a non-negative integer are dropped;
// the returned count says how many, since the shrunken list alone would hide
// the loss.
func Normalize(raw *crawler.RawListing) (*model.StoreInfo, int, error) {
	name := strings.TrimSpace(raw.Name)
	address := strings.TrimSpace(raw.Address)

	if name == "" {
		return nil, 0, fmt.Errorf("%w: name", ErrExtractionIncomplete)
	}
	if address == "" {
		return nil, 0, fmt.Errorf("%w: address", ErrExtractionIncomplete)
	}

	info := &model.StoreInfo{
		Name:          name,
		Address:       address,
		Phone:         optional(raw.Phone),
		Category:      optional(raw.Category),
		BusinessHours: optional(raw.BusinessHours),
		ImageURL:      optional(raw.ImageURL),
		Menus:         []model.MenuItem{},
	}

	dropped := 0
	for _, rawMenu := range raw.Menus {
		menuName := strings.TrimSpace(rawMenu.Name)
		if menuName == "" {
			dropped++
			continue
		}

		price, ok := parsePrice(rawMenu.Price)
		if !ok {
			dropped++
			continue
		}

		item := model.MenuItem{
			Name:        menuName,
			Price:       price,
			Description: optional(rawMenu.Description),
			ImageURL:    optional(rawMenu.ImageURL),
		}

		// original_price only exists when the source showed a higher list
		// price next to the selling price
		if original, ok := parsePrice(rawMenu.OriginalPrice); ok && original > price {
			item.OriginalPrice = &original
		}

		info.Menus = append(info.Menus, item)
	}

	return info, dropped, nil
}

// parsePrice turns scraped price text ("12,000원", "12000") into a
// non-negative integer amount of won. Text without digits, negative amounts
// and out-of-range values do not parse.
func parsePrice(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	negative := strings.HasPrefix(text, "-")

	var digits strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	value, err := strconv.Atoi(digits.String())
	if err != nil || negative {
		return 0, false
	}
	return value, true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

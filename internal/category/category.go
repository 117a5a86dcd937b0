package category

import "github.com/vroong/store-onboarding-service/internal/model"

// categories is the fixed destination category set. The frontend fetches this
// table from GET /api/categories and falls back to its own compiled-in copy
// when the service is unreachable; this slice is the canonical source.
var categories = []model.Category{
	{Value: "chicken", Label: "치킨", Emoji: "🍗"},
	{Value: "pizza", Label: "피자", Emoji: "🍕"},
	{Value: "korean", Label: "한식", Emoji: "🍚"},
	{Value: "chinese", Label: "중식", Emoji: "🥡"},
	{Value: "japanese", Label: "일식", Emoji: "🍣"},
	{Value: "western", Label: "양식", Emoji: "🍝"},
	{Value: "snack", Label: "분식", Emoji: "🍜"},
	{Value: "cafe", Label: "카페/디저트", Emoji: "☕"},
	{Value: "fastfood", Label: "패스트푸드", Emoji: "🍔"},
}

// All returns the category table in display order.
func All() []model.Category {
	out := make([]model.Category, len(categories))
	copy(out, categories)
	return out
}

// IsValid reports whether code is a member of the category set.
func IsValid(code string) bool {
	for _, c := range categories {
		if c.Value == code {
			return true
		}
	}
	return false
}

package dto

import "github.com/vroong/store-onboarding-service/internal/model"

// CrawlResult is the outcome of one extraction. SuggestedCategory is the
// advisory keyword-mapper output ("" when nothing matched); DroppedMenus
// counts menu entries discarded during normalization.
type CrawlResult struct {
	Store             *model.StoreInfo
	SuggestedCategory string
	DroppedMenus      int
}

type OnboardResult struct {
	StoreID    string
	MenuCount  int
	PreviewURL string
}

type StoreFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}

type MenuFilters struct {
	Category string
	Page     int
	PageSize int
}

package dto

import "github.com/vroong/store-onboarding-service/internal/model"

type CrawlInput struct {
	URL            string
	BusinessNumber *string
}

type OnboardInput struct {
	Store          model.StoreInfo
	BusinessNumber *string
	Category       string
}

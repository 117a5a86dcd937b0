package store

import (
	"context"

	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
)

type UseCase interface {
	Crawl(ctx context.Context, input *dto.CrawlInput) (*dto.CrawlResult, error)
	Onboard(ctx context.Context, input *dto.OnboardInput) (*dto.OnboardResult, error)
	ListStores(ctx context.Context, filters *dto.StoreFilters) ([]model.Store, int, error)
	GetStore(ctx context.Context, id string) (*model.Store, []model.Menu, error)
	DeleteStore(ctx context.Context, id string) error
	ListMenus(ctx context.Context, filters *dto.MenuFilters) ([]model.Menu, int, error)
}

package store

import (
	"context"

	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
)

type Repository interface {
	// Onboard persists the store and all its menus in one transaction;
	// either everything lands or nothing does.
	Onboard(ctx context.Context, s *model.Store, menus []model.Menu) error
	FindStoreByID(ctx context.Context, id string) (*model.Store, error)
	FindAllStores(ctx context.Context, filters *dto.StoreFilters) ([]model.Store, int, error)
	FindMenusByStoreID(ctx context.Context, storeID string) ([]model.Menu, error)
	FindAllMenus(ctx context.Context, filters *dto.MenuFilters) ([]model.Menu, int, error)
	// DeleteStore removes the store row; menus go with it via the cascade.
	DeleteStore(ctx context.Context, id string) error
}

// Publisher emits domain events after successful onboarding. Publishing is
// best-effort: a broker failure never fails the onboard.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vroong/store-onboarding-service/internal/category"
	"github.com/vroong/store-onboarding-service/internal/crawler"
	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
	"github.com/vroong/store-onboarding-service/pkg/cache"
	"github.com/vroong/store-onboarding-service/pkg/logger"
	"github.com/vroong/store-onboarding-service/pkg/search"
)

const storesIndex = "stores"

type Options struct {
	CrawlTimeout   time.Duration
	PreviewBaseURL string
}

type storeUseCase struct {
	repo           store.Repository
	extractor      crawler.Extractor
	cache          *cache.RedisClient
	es             *search.Client
	publisher      store.Publisher
	logger         logger.ZapLogger
	crawlTimeout   time.Duration
	previewBaseURL string
}

// NewStoreUseCase wires the crawl and onboard pipelines. cache, es and
// publisher may be nil; the usecase degrades to plain DB access without them.
func NewStoreUseCase(
	repo store.Repository,
	extractor crawler.Extractor,
	redisCache *cache.RedisClient,
	es *search.Client,
	publisher store.Publisher,
	log logger.ZapLogger,
	opts Options,
) store.UseCase {
	return &storeUseCase{
		repo:           repo,
		extractor:      extractor,
		cache:          redisCache,
		es:             es,
		publisher:      publisher,
		logger:         log,
		crawlTimeout:   opts.CrawlTimeout,
		previewBaseURL: strings.TrimRight(opts.PreviewBaseURL, "/"),
	}
}

// Crawl runs one extraction and normalization pass. The result is handed back
// to the operator for review; nothing is persisted here.
func (uc *storeUseCase) Crawl(ctx context.Context, input *dto.CrawlInput) (*dto.CrawlResult, error) {
	if uc.crawlTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.crawlTimeout)
		defer cancel()
	}

	raw, err := uc.extractor.Extract(ctx, input.URL)
	if err != nil {
		return nil, err
	}

	info, dropped, err := store.Normalize(raw)
	if err != nil {
		return nil, err
	}

	suggested := ""
	if info.Category != nil {
		suggested = category.Map(*info.Category)
	}

	uc.logger.Info("crawl completed",
		zap.String("store", info.Name),
		zap.Int("menus", len(info.Menus)),
		zap.Int("dropped_menus", dropped),
		zap.String("suggested_category", suggested),
	)

	return &dto.CrawlResult{
		Store:             info,
		SuggestedCategory: suggested,
		DroppedMenus:      dropped,
	}, nil
}

// Onboard persists an operator-approved StoreInfo as one store row plus its
// menu rows, atomically. Repeated calls for the same listing insert new rows
// with fresh ids; there is no dedup.
func (uc *storeUseCase) Onboard(ctx context.Context, input *dto.OnboardInput) (*dto.OnboardResult, error) {
	name := strings.TrimSpace(input.Store.Name)
	address := strings.TrimSpace(input.Store.Address)
	if name == "" || address == "" {
		// the normalizer already checked, but the operator may have edited
		// the payload by hand in between
		return nil, fmt.Errorf("%w: name and address are required", store.ErrExtractionIncomplete)
	}

	if !category.IsValid(input.Category) {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidCategory, input.Category)
	}

	now := time.Now()
	s := &model.Store{
		ID:             uuid.New().String(),
		Name:           name,
		Address:        address,
		Phone:          input.Store.Phone,
		Category:       input.Category,
		ImageURL:       input.Store.ImageURL,
		BusinessNumber: input.BusinessNumber,
		OnboardedAt:    now,
		CreatedAt:      now,
	}

	menus := make([]model.Menu, 0, len(input.Store.Menus))
	for _, item := range input.Store.Menus {
		if strings.TrimSpace(item.Name) == "" || item.Price < 0 {
			continue
		}
		menus = append(menus, buildMenuRow(s, item, now))
	}

	if err := uc.repo.Onboard(ctx, s, menus); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}

	uc.logger.Info("store onboarded",
		zap.String("store_id", s.ID),
		zap.String("name", s.Name),
		zap.String("category", s.Category),
		zap.Int("menu_count", len(menus)),
	)

	go uc.invalidateListCaches(context.Background())
	go uc.syncToElastic(context.Background(), s)
	go uc.publishOnboarded(context.Background(), s, len(menus))

	return &dto.OnboardResult{
		StoreID:    s.ID,
		MenuCount:  len(menus),
		PreviewURL: fmt.Sprintf("%s/restaurant/%s", uc.previewBaseURL, s.ID),
	}, nil
}

func buildMenuRow(s *model.Store, item model.MenuItem, now time.Time) model.Menu {
	menu := model.Menu{
		ID:             uuid.New().String(),
		RestaurantID:   s.ID,
		RestaurantName: s.Name,
		MenuName:       item.Name,
		Price:          item.Price,
		OriginalPrice:  item.OriginalPrice,
		ImageURL:       model.DefaultMenuImageURL,
		Category:       s.Category,
		OrderMethod:    model.DefaultOrderMethod,
		PaymentMethod:  model.DefaultPaymentMethod,
		PhoneNumber:    model.DefaultPhoneNumber,
		Description:    fmt.Sprintf("%s의 %s", s.Name, item.Name),
		Address:        s.Address,
		Rating:         model.DefaultRating,
		DeliveryTime:   model.DefaultDeliveryTime,
		CreatedAt:      now,
	}

	if item.ImageURL != nil && *item.ImageURL != "" {
		menu.ImageURL = *item.ImageURL
	}
	if item.Description != nil && *item.Description != "" {
		menu.Description = *item.Description
	}
	if s.Phone != nil && *s.Phone != "" {
		menu.PhoneNumber = *s.Phone
	}

	return menu
}

func (uc *storeUseCase) ListStores(ctx context.Context, filters *dto.StoreFilters) ([]model.Store, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		cacheKey = listCacheKey("stores", filters)
		if stores, count, ok := readListCache[model.Store](ctx, uc.cache, cacheKey); ok {
			return stores, count, nil
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		stores, count, err := uc.searchStores(ctx, filters)
		if err == nil {
			return stores, count, nil
		}
		uc.logger.Error("store search failed, falling back to DB", zap.Error(err))
	}

	stores, count, err := uc.repo.FindAllStores(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		writeListCache(ctx, uc.cache, cacheKey, stores, count)
	}

	return stores, count, nil
}

func (uc *storeUseCase) searchStores(ctx context.Context, filters *dto.StoreFilters) ([]model.Store, int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "address", "category"},
			},
		},
	}
	if filters.PageSize > 0 {
		query["from"] = (filters.Page - 1) * filters.PageSize
		query["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, storesIndex, query)
	if err != nil {
		return nil, 0, err
	}

	var stores []model.Store
	for _, hit := range res.Hits.Hits {
		var s model.Store
		if err := json.Unmarshal(hit.Source, &s); err == nil {
			stores = append(stores, s)
		}
	}
	return stores, res.Hits.Total.Value, nil
}

func (uc *storeUseCase) GetStore(ctx context.Context, id string) (*model.Store, []model.Menu, error) {
	s, err := uc.repo.FindStoreByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, fmt.Errorf("%w: %s", store.ErrStoreNotFound, id)
	}

	menus, err := uc.repo.FindMenusByStoreID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return s, menus, nil
}

func (uc *storeUseCase) DeleteStore(ctx context.Context, id string) error {
	s, err := uc.repo.FindStoreByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: %s", store.ErrStoreNotFound, id)
	}

	if err := uc.repo.DeleteStore(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}

	uc.logger.Info("store deleted", zap.String("store_id", id))

	go uc.invalidateListCaches(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), storesIndex, id); err != nil {
				uc.logger.Error("failed to remove store from index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *storeUseCase) ListMenus(ctx context.Context, filters *dto.MenuFilters) ([]model.Menu, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		cacheKey = listCacheKey("menus", filters)
		if menus, count, ok := readListCache[model.Menu](ctx, uc.cache, cacheKey); ok {
			return menus, count, nil
		}
	}

	menus, count, err := uc.repo.FindAllMenus(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		writeListCache(ctx, uc.cache, cacheKey, menus, count)
	}

	return menus, count, nil
}

func (uc *storeUseCase) syncToElastic(ctx context.Context, s *model.Store) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"address": { "type": "text" },
				"category": { "type": "keyword" },
				"business_number": { "type": "keyword" },
				"onboarded_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, storesIndex, mapping)

	if err := uc.es.Index(ctx, storesIndex, s.ID, s); err != nil {
		uc.logger.Error("failed to index store", zap.String("store_id", s.ID), zap.Error(err))
	}
}

type listCacheEntry[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listCacheKey(kind string, filters interface{}) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:list:%x", kind, md5.Sum(data))
}

func readListCache[T any](ctx context.Context, c *cache.RedisClient, key string) ([]T, int, bool) {
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, 0, false
	}
	var entry listCacheEntry[T]
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, 0, false
	}
	return entry.Items, entry.Count, true
}

func writeListCache[T any](ctx context.Context, c *cache.RedisClient, key string, items []T, count int) {
	data, err := json.Marshal(listCacheEntry[T]{Items: items, Count: count})
	if err != nil {
		return
	}
	c.Client.Set(ctx, key, data, 5*time.Minute)
}

func (uc *storeUseCase) invalidateListCaches(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	for _, pattern := range []string{"stores:list:*", "menus:list:*"} {
		keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
		if err == nil && len(keys) > 0 {
			uc.cache.Client.Del(ctx, keys...)
		}
	}
}

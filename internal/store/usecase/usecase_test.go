package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vroong/store-onboarding-service/internal/crawler"
	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
	"github.com/vroong/store-onboarding-service/pkg/logger"
)

type fakeExtractor struct {
	listing *crawler.RawListing
	err     error
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*crawler.RawListing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listing, nil
}

type onboardedBatch struct {
	store *model.Store
	menus []model.Menu
}

type fakeRepository struct {
	batches []onboardedBatch
	failTx  error
}

func (f *fakeRepository) Onboard(ctx context.Context, s *model.Store, menus []model.Menu) error {
	if f.failTx != nil {
		return f.failTx
	}
	f.batches = append(f.batches, onboardedBatch{store: s, menus: menus})
	return nil
}

func (f *fakeRepository) FindStoreByID(ctx context.Context, id string) (*model.Store, error) {
	for _, b := range f.batches {
		if b.store.ID == id {
			return b.store, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindAllStores(ctx context.Context, filters *dto.StoreFilters) ([]model.Store, int, error) {
	stores := make([]model.Store, 0, len(f.batches))
	for _, b := range f.batches {
		stores = append(stores, *b.store)
	}
	return stores, len(stores), nil
}

func (f *fakeRepository) FindMenusByStoreID(ctx context.Context, storeID string) ([]model.Menu, error) {
	for _, b := range f.batches {
		if b.store.ID == storeID {
			return b.menus, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindAllMenus(ctx context.Context, filters *dto.MenuFilters) ([]model.Menu, int, error) {
	var menus []model.Menu
	for _, b := range f.batches {
		for _, m := range b.menus {
			if filters.Category == "" || m.Category == filters.Category {
				menus = append(menus, m)
			}
		}
	}
	return menus, len(menus), nil
}

func (f *fakeRepository) DeleteStore(ctx context.Context, id string) error {
	for i, b := range f.batches {
		if b.store.ID == id {
			f.batches = append(f.batches[:i], f.batches[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePublisher struct {
	messages [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, key string, value []byte) error {
	f.messages = append(f.messages, value)
	return nil
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: true,
		Encoding:      "console",
		Level:         "error",
	})
}

func newTestUseCase(repo *fakeRepository, extractor *fakeExtractor) store.UseCase {
	return NewStoreUseCase(repo, extractor, nil, nil, nil, testLogger(), Options{
		CrawlTimeout:   5 * time.Second,
		PreviewBaseURL: "https://vroong-direct-order.vercel.app",
	})
}

func ptr(s string) *string { return &s }

func TestCrawlHappyPath(t *testing.T) {
	extractor := &fakeExtractor{listing: &crawler.RawListing{
		Name:     "이디야 강남점",
		Address:  "서울 강남구",
		Category: "카페/디저트",
		Menus: []crawler.RawMenu{
			{Name: "아메리카노", Price: "3,000원"},
			{Name: "미정", Price: "가격문의"},
		},
	}}
	uc := newTestUseCase(&fakeRepository{}, extractor)

	result, err := uc.Crawl(context.Background(), &dto.CrawlInput{URL: "https://map.naver.com/p/entry/place/1"})
	require.NoError(t, err)

	require.Equal(t, "이디야 강남점", result.Store.Name)
	require.Equal(t, "cafe", result.SuggestedCategory)
	require.Equal(t, 1, result.DroppedMenus)
	require.Len(t, result.Store.Menus, 1)
	require.Equal(t, 3000, result.Store.Menus[0].Price)
}

func TestCrawlExtractionFailed(t *testing.T) {
	extractor := &fakeExtractor{err: crawler.ErrExtractionFailed}
	uc := newTestUseCase(&fakeRepository{}, extractor)

	_, err := uc.Crawl(context.Background(), &dto.CrawlInput{URL: "https://map.naver.com/p/entry/place/1"})
	require.ErrorIs(t, err, crawler.ErrExtractionFailed)
}

func TestCrawlIncompleteListing(t *testing.T) {
	extractor := &fakeExtractor{listing: &crawler.RawListing{Category: "치킨"}}
	uc := newTestUseCase(&fakeRepository{}, extractor)

	_, err := uc.Crawl(context.Background(), &dto.CrawlInput{URL: "https://map.naver.com/p/entry/place/1"})
	require.ErrorIs(t, err, store.ErrExtractionIncomplete)
}

func TestOnboardHappyPath(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	result, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "Test Store",
			Address: "Seoul",
			Menus:   []model.MenuItem{{Name: "A", Price: 5000}},
		},
		Category: "korean",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.StoreID)
	require.Equal(t, 1, result.MenuCount)
	require.Equal(t, "https://vroong-direct-order.vercel.app/restaurant/"+result.StoreID, result.PreviewURL)

	require.Len(t, repo.batches, 1)
	batch := repo.batches[0]
	require.Equal(t, "Test Store", batch.store.Name)
	require.Equal(t, "korean", batch.store.Category)
	require.False(t, batch.store.OnboardedAt.IsZero())

	require.Len(t, batch.menus, 1)
	menu := batch.menus[0]
	require.Equal(t, batch.store.ID, menu.RestaurantID)
	require.Equal(t, "Test Store", menu.RestaurantName)
	require.Equal(t, "A", menu.MenuName)
	require.Equal(t, 5000, menu.Price)
	require.Equal(t, model.DefaultOrderMethod, menu.OrderMethod)
	require.Equal(t, model.DefaultPaymentMethod, menu.PaymentMethod)
	require.Equal(t, model.DefaultRating, menu.Rating)
	require.Equal(t, model.DefaultDeliveryTime, menu.DeliveryTime)
	require.Equal(t, model.DefaultPhoneNumber, menu.PhoneNumber)
	require.Nil(t, menu.OriginalPrice)
}

func TestOnboardInvalidCategory(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	_, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "Test Store",
			Address: "Seoul",
			Menus:   []model.MenuItem{{Name: "A", Price: 5000}},
		},
		Category: "sushi",
	})
	require.ErrorIs(t, err, store.ErrInvalidCategory)
	require.Empty(t, repo.batches, "no rows may be persisted on invalid category")
}

func TestOnboardMissingRequiredFields(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	_, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store:    model.StoreInfo{Name: " ", Address: "Seoul"},
		Category: "korean",
	})
	require.ErrorIs(t, err, store.ErrExtractionIncomplete)
	require.Empty(t, repo.batches)
}

func TestOnboardPersistenceFailure(t *testing.T) {
	repo := &fakeRepository{failTx: context.DeadlineExceeded}
	uc := newTestUseCase(repo, &fakeExtractor{})

	_, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "Test Store",
			Address: "Seoul",
		},
		Category: "korean",
	})
	require.ErrorIs(t, err, store.ErrPersistence)
}

func TestOnboardSkipsMalformedMenus(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	result, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "분식왕",
			Address: "서울 마포구",
			Menus: []model.MenuItem{
				{Name: "떡볶이", Price: 5000},
				{Name: "", Price: 3000},
				{Name: "이상한메뉴", Price: -100},
			},
		},
		Category: "snack",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.MenuCount)
	require.Len(t, repo.batches[0].menus, 1)
}

func TestOnboardDefaultsAndOverrides(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	original := 23000
	_, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "교촌치킨",
			Address: "서울 강남구",
			Phone:   ptr("02-1234-5678"),
			Menus: []model.MenuItem{{
				Name:          "허니콤보",
				Price:         20000,
				OriginalPrice: &original,
				Description:   ptr("허니소스 반반"),
				ImageURL:      ptr("https://example.com/menu.jpg"),
			}},
		},
		Category: "chicken",
	})
	require.NoError(t, err)

	menu := repo.batches[0].menus[0]
	require.Equal(t, "02-1234-5678", menu.PhoneNumber)
	require.Equal(t, "허니소스 반반", menu.Description)
	require.Equal(t, "https://example.com/menu.jpg", menu.ImageURL)
	require.NotNil(t, menu.OriginalPrice)
	require.Equal(t, 23000, *menu.OriginalPrice)
}

func TestOnboardIsNotIdempotent(t *testing.T) {
	// duplicate onboarding is accepted behavior: same listing twice yields
	// two stores with distinct generated ids
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	input := &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "Test Store",
			Address: "Seoul",
			Menus:   []model.MenuItem{{Name: "A", Price: 5000}},
		},
		Category: "korean",
	}

	first, err := uc.Onboard(context.Background(), input)
	require.NoError(t, err)
	second, err := uc.Onboard(context.Background(), input)
	require.NoError(t, err)

	require.NotEqual(t, first.StoreID, second.StoreID)
	require.Len(t, repo.batches, 2)
}

func TestCrawlThenOnboardRoundTrip(t *testing.T) {
	extractor := &fakeExtractor{listing: &crawler.RawListing{
		Name:     "분식왕",
		Address:  "서울 마포구",
		Category: "분식",
		Menus: []crawler.RawMenu{
			{Name: "떡볶이", Price: "5,000원"},
			{Name: "순대", Price: "6,000원"},
			{Name: "미정", Price: "시가"},
			{Name: "할인전", Price: "-500원"},
		},
	}}
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, extractor)

	crawled, err := uc.Crawl(context.Background(), &dto.CrawlInput{URL: "https://map.naver.com/p/entry/place/1"})
	require.NoError(t, err)
	require.Equal(t, 2, crawled.DroppedMenus)
	require.Equal(t, "snack", crawled.SuggestedCategory)

	result, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store:    *crawled.Store,
		Category: crawled.SuggestedCategory,
	})
	require.NoError(t, err)

	// exactly the two well-formed entries survive end to end
	require.Equal(t, 2, result.MenuCount)
	menus, count, err := uc.ListMenus(context.Background(), &dto.MenuFilters{Category: "snack"})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, "떡볶이", menus[0].MenuName)
	require.Equal(t, "순대", menus[1].MenuName)
}

func TestGetAndDeleteStore(t *testing.T) {
	repo := &fakeRepository{}
	uc := newTestUseCase(repo, &fakeExtractor{})

	result, err := uc.Onboard(context.Background(), &dto.OnboardInput{
		Store: model.StoreInfo{
			Name:    "Test Store",
			Address: "Seoul",
			Menus:   []model.MenuItem{{Name: "A", Price: 5000}},
		},
		Category: "korean",
	})
	require.NoError(t, err)

	s, menus, err := uc.GetStore(context.Background(), result.StoreID)
	require.NoError(t, err)
	require.Equal(t, "Test Store", s.Name)
	require.Len(t, menus, 1)

	_, _, err = uc.GetStore(context.Background(), "missing-id")
	require.ErrorIs(t, err, store.ErrStoreNotFound)

	require.NoError(t, uc.DeleteStore(context.Background(), result.StoreID))
	_, _, err = uc.GetStore(context.Background(), result.StoreID)
	require.ErrorIs(t, err, store.ErrStoreNotFound)

	err = uc.DeleteStore(context.Background(), result.StoreID)
	require.ErrorIs(t, err, store.ErrStoreNotFound)
}

func TestOnboardedEventPayload(t *testing.T) {
	repo := &fakeRepository{}
	publisher := &fakePublisher{}
	uc := NewStoreUseCase(repo, &fakeExtractor{}, nil, nil, publisher, testLogger(), Options{
		PreviewBaseURL: "https://vroong-direct-order.vercel.app",
	}).(*storeUseCase)

	now := time.Now()
	s := &model.Store{ID: "store-1", Name: "Test Store", Address: "Seoul", Category: "korean", OnboardedAt: now, CreatedAt: now}
	uc.publishOnboarded(context.Background(), s, 3)

	require.Len(t, publisher.messages, 1)

	var event StoreOnboardedEvent
	require.NoError(t, json.Unmarshal(publisher.messages[0], &event))
	require.Equal(t, "StoreOnboarded", event.EventType)
	require.NotEmpty(t, event.EventID)
	require.Equal(t, "store-1", event.Payload.StoreID)
	require.Equal(t, 3, event.Payload.MenuCount)
}

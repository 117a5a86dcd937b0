package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vroong/store-onboarding-service/internal/category"
	"github.com/vroong/store-onboarding-service/internal/crawler"
	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
	"github.com/vroong/store-onboarding-service/pkg/logger"
)

type StoreHandler struct {
	uc     store.UseCase
	logger logger.ZapLogger
}

func NewStoreHandler(uc store.UseCase, log logger.ZapLogger) *StoreHandler {
	return &StoreHandler{uc: uc, logger: log}
}

func (h *StoreHandler) Register(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Post("/crawl", h.Crawl)
		r.Post("/onboard", h.Onboard)
		r.Get("/stores", h.ListStores)
		r.Get("/stores/{storeID}", h.GetStore)
		r.Delete("/stores/{storeID}", h.DeleteStore)
		r.Get("/menus", h.ListMenus)
	})
}

type crawlRequest struct {
	NaverMapURL    string  `json:"naver_map_url"`
	BusinessNumber *string `json:"business_number,omitempty"`
}

type crawlResponse struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	Store             *model.StoreInfo `json:"store,omitempty"`
	SuggestedCategory string           `json:"suggested_category,omitempty"`
}

type onboardRequest struct {
	Store           model.StoreInfo `json:"store"`
	BusinessNumber  *string         `json:"business_number,omitempty"`
	CategoryMapping string          `json:"category_mapping"`
}

type onboardResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StoreID    string `json:"store_id,omitempty"`
	MenuCount  int    `json:"menu_count"`
	PreviewURL string `json:"preview_url,omitempty"`
}

func (h *StoreHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "부릉 영업사원 도구 API",
		"status":  "running",
		"endpoints": map[string]string{
			"crawl":      "POST /api/crawl",
			"onboard":    "POST /api/onboard",
			"stores":     "GET /api/stores",
			"categories": "GET /api/categories",
		},
	})
}

func (h *StoreHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *StoreHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": category.All(),
	})
}

func (h *StoreHandler) Crawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, crawlResponse{Success: false, Message: "잘못된 요청 형식입니다."})
		return
	}
	if req.NaverMapURL == "" {
		h.writeJSON(w, http.StatusOK, crawlResponse{Success: false, Message: "네이버 지도 URL을 입력해주세요."})
		return
	}

	result, err := h.uc.Crawl(r.Context(), &dto.CrawlInput{
		URL:            req.NaverMapURL,
		BusinessNumber: req.BusinessNumber,
	})
	if err != nil {
		h.crawlFailure(w, err)
		return
	}

	message := fmt.Sprintf("'%s' 크롤링 완료! 메뉴 %d개", result.Store.Name, len(result.Store.Menus))
	if result.DroppedMenus > 0 {
		message += fmt.Sprintf(" (가격을 읽지 못한 메뉴 %d개 제외)", result.DroppedMenus)
	}

	h.writeJSON(w, http.StatusOK, crawlResponse{
		Success:           true,
		Message:           message,
		Store:             result.Store,
		SuggestedCategory: result.SuggestedCategory,
	})
}

func (h *StoreHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, onboardResponse{Success: false, Message: "잘못된 요청 형식입니다."})
		return
	}

	result, err := h.uc.Onboard(r.Context(), &dto.OnboardInput{
		Store:          req.Store,
		BusinessNumber: req.BusinessNumber,
		Category:       req.CategoryMapping,
	})
	if err != nil {
		h.onboardFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, onboardResponse{
		Success:    true,
		Message:    fmt.Sprintf("'%s' 상점이 부릉에 등록되었습니다!", req.Store.Name),
		StoreID:    result.StoreID,
		MenuCount:  result.MenuCount,
		PreviewURL: result.PreviewURL,
	})
}

func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	filters := &dto.StoreFilters{
		SearchQuery: r.URL.Query().Get("search"),
		Page:        queryInt(r, "page", 1),
		PageSize:    queryInt(r, "page_size", 0),
	}

	stores, count, err := h.uc.ListStores(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list stores", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "상점 조회 중 오류가 발생했습니다.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stores":  stores,
		"count":   count,
	})
}

func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	s, menus, err := h.uc.GetStore(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"message": "상점을 찾을 수 없습니다.",
			})
			return
		}
		h.logger.Error("failed to get store", zap.String("store_id", storeID), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "상점 조회 중 오류가 발생했습니다.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"store":   s,
		"menus":   menus,
	})
}

func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	if err := h.uc.DeleteStore(r.Context(), storeID); err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"message": "상점을 찾을 수 없습니다.",
			})
			return
		}
		h.logger.Error("failed to delete store", zap.String("store_id", storeID), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "삭제 중 오류가 발생했습니다.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("상점 '%s'가 삭제되었습니다.", storeID),
	})
}

func (h *StoreHandler) ListMenus(w http.ResponseWriter, r *http.Request) {
	filters := &dto.MenuFilters{
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 0),
	}

	menus, count, err := h.uc.ListMenus(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list menus", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "메뉴 조회 중 오류가 발생했습니다.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"menus":   menus,
		"count":   count,
	})
}

// crawlFailure maps the crawl error taxonomy onto the uniform response
// envelope. Expected failures answer 200 with success=false; the operator UI
// treats them as guidance, not as transport errors.
func (h *StoreHandler) crawlFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, crawler.ErrExtractionFailed):
		h.writeJSON(w, http.StatusOK, crawlResponse{Success: false, Message: "상점 정보를 가져오지 못했습니다. URL을 확인해주세요."})
	case errors.Is(err, store.ErrExtractionIncomplete):
		h.writeJSON(w, http.StatusOK, crawlResponse{Success: false, Message: "상점명 또는 주소를 찾을 수 없습니다. 상점 상세 페이지 URL인지 확인해주세요."})
	case errors.Is(err, context.DeadlineExceeded):
		h.writeJSON(w, http.StatusOK, crawlResponse{Success: false, Message: "크롤링 시간이 초과되었습니다. 잠시 후 다시 시도해주세요."})
	default:
		h.logger.Error("crawl failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, crawlResponse{Success: false, Message: "크롤링 중 오류가 발생했습니다."})
	}
}

func (h *StoreHandler) onboardFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidCategory):
		h.writeJSON(w, http.StatusOK, onboardResponse{Success: false, Message: "알 수 없는 카테고리입니다. 카테고리를 선택해주세요."})
	case errors.Is(err, store.ErrExtractionIncomplete):
		h.writeJSON(w, http.StatusOK, onboardResponse{Success: false, Message: "상점명과 주소가 필요합니다."})
	case errors.Is(err, store.ErrPersistence):
		h.logger.Error("onboarding persistence failure", zap.Error(err))
		h.writeJSON(w, http.StatusOK, onboardResponse{Success: false, Message: "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."})
	default:
		h.logger.Error("onboard failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, onboardResponse{Success: false, Message: "온보딩 중 오류가 발생했습니다."})
	}
}

func (h *StoreHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

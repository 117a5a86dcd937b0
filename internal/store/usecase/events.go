package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vroong/store-onboarding-service/internal/model"
)

// StoreOnboardedEvent notifies downstream consumers (the direct-order web,
// sales dashboards) that a new store landed.
type StoreOnboardedEvent struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   StoreOnboardedPayload `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

type StoreOnboardedPayload struct {
	StoreID   string `json:"store_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Category  string `json:"category"`
	MenuCount int    `json:"menu_count"`
}

const eventTypeStoreOnboarded = "StoreOnboarded"

func (uc *storeUseCase) publishOnboarded(ctx context.Context, s *model.Store, menuCount int) {
	if uc.publisher == nil {
		return
	}

	event := StoreOnboardedEvent{
		EventID:   uuid.New().String(),
		EventType: eventTypeStoreOnboarded,
		Payload: StoreOnboardedPayload{
			StoreID:   s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Category:  s.Category,
			MenuCount: menuCount,
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal onboarded event", zap.Error(err))
		return
	}

	if err := uc.publisher.Publish(ctx, s.ID, data); err != nil {
		uc.logger.Error("failed to publish onboarded event", zap.String("store_id", s.ID), zap.Error(err))
	}
}

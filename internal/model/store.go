package model

import "time"

// Defaults stamped onto every persisted menu row. The crawled source carries
// none of these fields, but the direct-order web expects them to be present.
const (
	DefaultOrderMethod   = "phone"
	DefaultPaymentMethod = "pay_on_delivery"
	DefaultRating        = 4.5
	DefaultDeliveryTime  = "30-40분"
	DefaultPhoneNumber   = "미등록"
	DefaultMenuImageURL  = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=400&h=300&fit=crop"
)

// StoreInfo is the normalized in-memory snapshot of one crawled listing.
// It is handed to the operator for review and is never persisted as-is;
// onboarding turns it into Store and Menu rows.
type StoreInfo struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Phone         *string    `json:"phone"`
	Category      *string    `json:"category"` // source vocabulary, free text
	BusinessHours *string    `json:"business_hours"`
	ImageURL      *string    `json:"image_url"`
	Menus         []MenuItem `json:"menus"`
}

type MenuItem struct {
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	OriginalPrice *int    `json:"original_price,omitempty"`
	Description   *string `json:"description"`
	ImageURL      *string `json:"image_url"`
}

// Store is a persisted onboarded store.
type Store struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Address        string    `db:"address" json:"address"`
	Phone          *string   `db:"phone" json:"phone"`
	Category       string    `db:"category" json:"category"`
	ImageURL       *string   `db:"image_url" json:"image_url"`
	BusinessNumber *string   `db:"business_number" json:"business_number"`
	OnboardedAt    time.Time `db:"onboarded_at" json:"onboarded_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Menu is a persisted menu row. Store name/address/phone are denormalized
// onto each row so the direct-order web can render a menu card without joins.
type Menu struct {
	ID             string    `db:"id" json:"id"`
	RestaurantID   string    `db:"restaurant_id" json:"restaurant_id"`
	RestaurantName string    `db:"restaurant_name" json:"restaurant_name"`
	MenuName       string    `db:"menu_name" json:"menu_name"`
	Price          int       `db:"price" json:"price"`
	OriginalPrice  *int      `db:"original_price" json:"original_price"`
	ImageURL       string    `db:"image_url" json:"image_url"`
	Category       string    `db:"category" json:"category"`
	OrderMethod    string    `db:"order_method" json:"order_method"`
	PaymentMethod  string    `db:"payment_method" json:"payment_method"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Description    string    `db:"description" json:"description"`
	Address        string    `db:"address" json:"address"`
	Rating         float64   `db:"rating" json:"rating"`
	DeliveryTime   string    `db:"delivery_time" json:"delivery_time"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

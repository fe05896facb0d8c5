package domain

import "time"

// DealSource identifies which pipeline produced a deal.
type DealSource string

const (
	DealSourceAPI     DealSource = "api"
	DealSourceScraper DealSource = "scraper"
)

// ClearanceEndings are the price endings Home Depot uses internally to flag
// markdown stages. A product whose price ends in one of these is treated as
// a clearance item.
var ClearanceEndings = []string{".06", ".04", ".03", ".02"}

// Deal is the canonical product entity. SKU is the natural key: it is stable
// across refreshes and anchors the upsert/reconciliation cycle.
type Deal struct {
	ID               string         `json:"id"`
	SKU              string         `json:"sku"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	ImageURL         string         `json:"image_url,omitempty"`
	CurrentPrice     float64        `json:"current_price"`
	OriginalPrice    *float64       `json:"original_price,omitempty"`
	DiscountPercent  *float64       `json:"discount_percent,omitempty"`
	PriceEnding      string         `json:"price_ending,omitempty"`
	CategoryID       *string        `json:"category_id,omitempty"`
	CategoryName     string         `json:"category_name,omitempty"`
	CategorySlug     string         `json:"category_slug,omitempty"`
	OnlineAvailable  bool           `json:"online_available"`
	InStoreAvailable bool           `json:"in_store_available"`
	AvailabilityData map[string]any `json:"availability_data,omitempty"`
	StoreLocations   []any          `json:"store_locations,omitempty"`
	IsFeatured       bool           `json:"is_featured"`
	Source           DealSource     `json:"source"`
	LastUpdatedAt    time.Time      `json:"last_updated"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsClearance reports whether the deal carries a markdown price ending.
func (d *Deal) IsClearance() bool {
	for _, ending := range ClearanceEndings {
		if d.PriceEnding == ending {
			return true
		}
	}
	return false
}

// InStock reports availability on at least one channel.
func (d *Deal) InStock() bool {
	return d.OnlineAvailable || d.InStoreAvailable
}

// DealFilters carries the read-path filter criteria. Zero values mean
// "not filtered".
type DealFilters struct {
	SKU          string
	PriceEnding  string
	CategoryID   string
	MinDiscount  *float64
	MaxDiscount  *float64
	ZipCode      string
	OnlineOnly   bool
	InStoreOnly  bool
	FeaturedOnly bool
	ShowAll      bool
	Page         int
	Limit        int
}

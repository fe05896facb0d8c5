package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/pkg/utils"
)

// The upstream actor does not guarantee a stable record shape: field names
// vary per query and per item. Every logical attribute is therefore resolved
// through an ordered list of candidate paths, first present-and-non-empty
// wins. New upstream shapes are handled by extending these tables.

var skuPaths = []string{
	"storeSkuNumber", "sku", "productId", "product_id",
	"itemNumber", "model", "itemId", "id", "productNumber",
}

var titlePaths = []string{
	"productLabel", "title", "name", "productName", "productTitle",
	"displayName", "productDisplayName",
}

var currentPricePaths = []string{
	// Top-level store SKU price range fields come first; they are the most
	// common shape in actor output.
	"sskMax", "sskMin",
	"pricing.currentPrice", "pricing.price", "pricing.regularPrice", "pricing.unitPrice",
	"pricing.salePrice", "pricing.finalPrice", "pricing.displayPrice", "pricing.amount",
	"pricing.current", "pricing.now", "pricing.today", "pricing.value",
	"pricing.regular.amount", "pricing.regular.price", "pricing.regular.value",
	"pricing.sale.amount", "pricing.sale.price", "pricing.sale.value",
	"pricing.current.amount", "pricing.current.price", "pricing.current.value",
	"pricing.original.amount", "pricing.original.price",
	"pricing.0.amount", "pricing.0.price", "pricing.0.value",
	"fulfillment.pricing.currentPrice", "fulfillment.pricing.price",
	"fulfillment.price", "fulfillment.currentPrice", "fulfillment.amount",
	"price", "currentPrice", "current_price", "priceValue", "unitPrice",
}

var originalPricePaths = []string{
	"wasMaxPriceRange", "wasMinPriceRange",
	"pricing.originalPrice", "pricing.listPrice", "pricing.wasPrice",
	"pricing.regular.amount", "pricing.original.amount",
	"originalPrice", "original_price", "listPrice", "regularPrice",
	"fulfillment.pricing.originalPrice",
}

var imagePaths = []string{
	"media.primaryImage", "media.image", "media.thumbnail", "media.images.0.url",
	"image", "imageUrl", "image_url", "thumbnail", "photo",
	"productImage", "primaryImage", "images.0",
}

var descriptionPaths = []string{
	"description", "productDescription", "url",
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// Normalize maps one raw upstream record to a canonical Deal. It is pure and
// never fails: missing fields degrade to zero values, never to an error.
func Normalize(raw map[string]any) domain.Deal {
	now := time.Now()

	sku := firstString(raw, skuPaths)

	title := firstString(raw, titlePaths)
	if title == "" {
		// Some shapes only carry a brand name; combine it with whatever
		// label is present.
		brand := asString(lookup(raw, "brandName"))
		label := firstString(raw, []string{"productLabel", "productName"})
		title = strings.TrimSpace(brand + " " + label)
	}
	if title == "" {
		title = fmt.Sprintf("Product %s", sku)
	}

	currentPrice, _ := firstNumber(raw, currentPricePaths)

	var originalPrice *float64
	if orig, ok := firstNumber(raw, originalPricePaths); ok {
		originalPrice = &orig
	}

	var discountPercent *float64
	if d, ok := CalculateDiscount(currentPrice, originalPrice); ok {
		discountPercent = &d
	}

	imageURL := firstString(raw, imagePaths)
	// Actor image URLs carry a size placeholder.
	imageURL = strings.ReplaceAll(imageURL, "<SIZE>", "600")

	categoryName, categorySlug := extractCategory(raw)

	var categoryID *string
	if id := firstString(raw, []string{"categoryId", "category_id"}); id != "" {
		categoryID = &id
	}

	deal := domain.Deal{
		SKU:              sku,
		Title:            title,
		Description:      firstString(raw, descriptionPaths),
		ImageURL:         imageURL,
		CurrentPrice:     currentPrice,
		OriginalPrice:    originalPrice,
		DiscountPercent:  discountPercent,
		PriceEnding:      ExtractPriceEnding(currentPrice),
		CategoryID:       categoryID,
		CategoryName:     categoryName,
		CategorySlug:     categorySlug,
		OnlineAvailable:  extractOnlineAvailable(raw),
		InStoreAvailable: extractInStoreAvailable(raw),
		AvailabilityData: asMap(firstPresent(raw, []string{"availability", "availabilityData"})),
		StoreLocations:   asSlice(firstPresent(raw, []string{"storeLocations", "store_locations"})),
		Source:           domain.DealSourceAPI,
		LastUpdatedAt:    now,
		CreatedAt:        now,
	}

	return deal
}

// ExtractPriceEnding returns the markdown-class tag for a price, or "" when
// the two digits after the decimal point are not a known clearance ending.
func ExtractPriceEnding(price float64) string {
	priceStr := strconv.FormatFloat(price, 'f', -1, 64)
	parts := strings.SplitN(priceStr, ".", 2)
	if len(parts) < 2 || len(parts[1]) < 2 {
		return ""
	}

	ending := "." + parts[1][:2]
	for _, known := range domain.ClearanceEndings {
		if ending == known {
			return ending
		}
	}
	return ""
}

// CalculateDiscount derives the discount percent from the price pair. Absent
// when there is no original price or the item is not actually discounted.
func CalculateDiscount(current float64, original *float64) (float64, bool) {
	if original == nil || *original <= current || *original == 0 {
		return 0, false
	}
	return utils.RoundWithTwoDecimalPlace((*original - current) / *original * 100), true
}

// The upstream is assumed to list only sellable items: absence of an explicit
// "unavailable" signal counts as available. This lenient default is a product
// requirement ("don't show out-of-stock items" is enforced by reconciliation,
// not by doubting fresh records).

func extractOnlineAvailable(raw map[string]any) bool {
	if v, ok := raw["onlineAvailable"].(bool); ok && !v {
		return false
	}
	if truthy(lookup(raw, "onlineAvailable")) || truthy(lookup(raw, "availableOnline")) ||
		truthy(lookup(raw, "fulfillment.online")) || truthy(lookup(raw, "availabilityType.online")) {
		return true
	}
	return true
}

func extractInStoreAvailable(raw map[string]any) bool {
	if truthy(lookup(raw, "inStoreAvailable")) || truthy(lookup(raw, "availableInStore")) ||
		truthy(lookup(raw, "storeAvailable")) {
		return true
	}
	if truthy(lookup(raw, "fulfillment.inStore")) || truthy(lookup(raw, "availabilityType.inStore")) {
		return true
	}
	if locations := asSlice(firstPresent(raw, []string{"storeLocations", "store_locations"})); len(locations) > 0 {
		return true
	}
	if availData := asMap(firstPresent(raw, []string{"availability", "availabilityData"})); availData != nil {
		if stock, ok := toFloat(availData["stock"]); ok && stock > 0 {
			return true
		}
		if avail, ok := availData["available"].(bool); ok && avail {
			return true
		}
		if inStock, ok := availData["inStock"].(bool); ok && inStock {
			return true
		}
	}

	// Lenient default: available unless explicitly flagged otherwise.
	if v, ok := raw["inStoreAvailable"].(bool); ok && !v {
		return false
	}
	return true
}

func extractCategory(raw map[string]any) (name, slug string) {
	name = firstString(raw, []string{"categoryName", "category_name"})
	if name == "" {
		hierarchy := asSlice(firstPresent(raw, []string{"categoryHierarchy", "categories"}))
		if len(hierarchy) > 0 {
			name = asString(hierarchy[len(hierarchy)-1])
		}
	}

	slug = firstString(raw, []string{"categorySlug", "category_slug"})
	if slug == "" && name != "" {
		slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	return name, slug
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/internal/usecases/dealing"
	"github.com/Mizanur7464/home-depot/pkg/apiErrors"
	"github.com/Mizanur7464/home-depot/pkg/log"
	"github.com/julienschmidt/httprouter"
)

// ListDeals serves the public deal feed. A database failure degrades to an
// empty list with an error note instead of a 5xx: the storefront keeps
// rendering.
func ListDeals(service dealing.Dealer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters := parseDealFilters(r)

		result, err := service.ListDeals(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("Failed to list deals")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"deals": []any{},
				"error": "deals are temporarily unavailable",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func GetDeal(service dealing.Dealer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Deal ID is required", nil)
			return
		}

		deal, err := service.GetDealByID(r.Context(), id)
		if err != nil {
			if err == dealing.ErrDealNotFound {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}
			logger.WithError(err).Error("Failed to get deal")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to get deal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(deal)
	}
}

func parseDealFilters(r *http.Request) domain.DealFilters {
	q := r.URL.Query()

	filters := domain.DealFilters{
		SKU:          q.Get("sku"),
		PriceEnding:  q.Get("price_ending"),
		CategoryID:   q.Get("category_id"),
		ZipCode:      q.Get("zip"),
		OnlineOnly:   parseBool(q.Get("online_only")),
		InStoreOnly:  parseBool(q.Get("in_store_only")),
		FeaturedOnly: parseBool(q.Get("featured")),
		ShowAll:      parseBool(q.Get("show_all")),
	}

	if v, err := strconv.ParseFloat(q.Get("min_discount"), 64); err == nil {
		filters.MinDiscount = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_discount"), 64); err == nil {
		filters.MaxDiscount = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		filters.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filters.Limit = v
	}

	return filters
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/internal/scheduler"
	"github.com/Mizanur7464/home-depot/pkg/apiErrors"
	"github.com/Mizanur7464/home-depot/pkg/log"
	"github.com/julienschmidt/httprouter"
)

// AdminServices bundles the dependencies of the admin surface.
type AdminServices struct {
	RefreshService *scheduler.DealRefreshService
	DealRepo       repository.DealRepository
	CategoryRepo   repository.CategoryRepository
	LogRepo        repository.ActivityLogRepository
}

// TriggerRefresh starts a refresh cycle in the background. Responds 409 when
// a cycle is already running.
func TriggerRefresh(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if services.RefreshService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Refresh service not available", nil)
			return
		}

		if err := services.RefreshService.TriggerManualSync(); err != nil {
			if errors.Is(err, scheduler.ErrRefreshInProgress) {
				apiErrors.WriteError(w, apiErrors.ErrRefreshInProgress, "A refresh cycle is already in progress", nil)
				return
			}
			logger.WithError(err).Error("Failed to trigger refresh")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to trigger refresh", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Refresh started",
		})
	}
}

func GetRefreshStatus(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if services.RefreshService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Refresh service not available", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(services.RefreshService.GetStatus())
	}
}

func ListActivityLogs(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logType := r.URL.Query().Get("type")
		limit := 0
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
			limit = v
		}

		entries, err := services.LogRepo.ListLogs(logType, limit)
		if err != nil {
			logger.WithError(err).Error("Failed to list activity logs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list activity logs", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"logs":  entries,
			"count": len(entries),
		})
	}
}

func ListCategories(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		onlyActive := parseBool(r.URL.Query().Get("active"))

		categories, err := services.CategoryRepo.ListCategories(onlyActive)
		if err != nil {
			logger.WithError(err).Error("Failed to list categories")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list categories", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"categories": categories,
			"count":      len(categories),
		})
	}
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active"`
}

func CreateCategory(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req createCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid request body", nil)
			return
		}

		if req.Name == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "name is required", nil)
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = strings.ReplaceAll(strings.ToLower(req.Name), " ", "-")
		}

		category := &domain.Category{
			Name:     req.Name,
			Slug:     slug,
			IsActive: req.IsActive == nil || *req.IsActive,
		}

		if err := services.CategoryRepo.CreateCategory(category); err != nil {
			if errors.Is(err, domain.ErrCategoryAlreadyExists) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Category already exists", nil)
				return
			}
			logger.WithError(err).Error("Failed to create category")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to create category", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(category)
	}
}

func UpdateCategory(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Category ID is required", nil)
			return
		}

		var req domain.UpdateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid request body", nil)
			return
		}
		req.ID = id

		if err := services.CategoryRepo.UpdateCategory(&req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apiErrors.WriteError(w, apiErrors.ErrCategoryNotFound, "Category not found", nil)
				return
			}
			logger.WithError(err).Error("Failed to update category")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to update category", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Category updated",
		})
	}
}

func DeleteCategory(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Category ID is required", nil)
			return
		}

		if err := services.CategoryRepo.DeleteCategory(id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apiErrors.WriteError(w, apiErrors.ErrCategoryNotFound, "Category not found", nil)
				return
			}
			logger.WithError(err).Error("Failed to delete category")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to delete category", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Category deleted",
		})
	}
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// SetDealFeatured pins or unpins a deal at the top of the feed.
func SetDealFeatured(services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Deal ID is required", nil)
			return
		}

		var req setFeaturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid request body", nil)
			return
		}

		if err := services.DealRepo.SetFeatured(id, req.Featured); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}
			logger.WithError(err).Error("Failed to update deal featured flag")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to update deal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Deal updated",
			"featured": req.Featured,
		})
	}
}

package handler

import (
	"net/http"

	"github.com/Mizanur7464/home-depot/internal/api/handler/router"
	"github.com/Mizanur7464/home-depot/internal/usecases/authenticating"
	"github.com/Mizanur7464/home-depot/internal/usecases/dealing"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Deals are the public read surface; no auth middleware applies here.
func Deals(service dealing.Dealer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/deals",
			Method:  http.MethodGet,
			Handler: ListDeals(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodGet,
			Handler: GetDeal(service),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/auth/session",
			Method:  http.MethodPost,
			Handler: CreateSession(service),
		},
	}
}

// Admin routes live under /v1/admin and are guarded by the session
// middleware installed on the server chain.
func Admin(services AdminServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/admin/refresh",
			Method:  http.MethodPost,
			Handler: TriggerRefresh(services),
		},
		{
			Path:    "/v1/admin/refresh/status",
			Method:  http.MethodGet,
			Handler: GetRefreshStatus(services),
		},
		{
			Path:    "/v1/admin/logs",
			Method:  http.MethodGet,
			Handler: ListActivityLogs(services),
		},
		{
			Path:    "/v1/admin/categories",
			Method:  http.MethodGet,
			Handler: ListCategories(services),
		},
		{
			Path:    "/v1/admin/categories",
			Method:  http.MethodPost,
			Handler: CreateCategory(services),
		},
		{
			Path:    "/v1/admin/categories/:id",
			Method:  http.MethodPut,
			Handler: UpdateCategory(services),
		},
		{
			Path:    "/v1/admin/categories/:id",
			Method:  http.MethodDelete,
			Handler: DeleteCategory(services),
		},
		{
			Path:    "/v1/admin/deals/:id/feature",
			Method:  http.MethodPut,
			Handler: SetDealFeatured(services),
		},
	}
}

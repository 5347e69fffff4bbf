package httpserver

import (
	"net/http"

	"touservice/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Health    http.HandlerFunc
	Auth      *handlers.AuthHandler
	Regions   *handlers.RegionsHandler
	Chargers  *handlers.ChargersHandler
	Pricing   *handlers.PricingHandler
	Seed      http.HandlerFunc
	PriceFeed http.HandlerFunc
}

// NewRouter registers endpoints. priceAdmin wraps the price-setting routes.
func NewRouter(deps RouterDeps, priceAdmin func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", deps.Health)
	mux.Handle("POST /auth/token", http.HandlerFunc(deps.Auth.Token))

	mux.Handle("GET /regions", http.HandlerFunc(deps.Regions.List))
	mux.Handle("GET /regions/{regionID}", http.HandlerFunc(deps.Regions.Get))

	mux.Handle("GET /chargers", http.HandlerFunc(deps.Chargers.List))
	mux.Handle("GET /chargers/{chargerID}", http.HandlerFunc(deps.Chargers.Get))
	mux.Handle("GET /nearest-chargers", http.HandlerFunc(deps.Chargers.Nearest))

	mux.Handle("GET /chargers/{chargerID}/pricing-schedule", http.HandlerFunc(deps.Pricing.Schedule))
	mux.Handle("GET /chargers/{chargerID}/current-pricing-period", http.HandlerFunc(deps.Pricing.CurrentPeriod))
	mux.Handle("GET /chargers/{chargerID}/pricing-periods", http.HandlerFunc(deps.Pricing.PeriodsByCharger))
	mux.Handle("GET /pricing-periods/{periodID}", http.HandlerFunc(deps.Pricing.PeriodByID))

	mux.Handle("PATCH /chargers/{chargerID}", priceAdmin(http.HandlerFunc(deps.Chargers.Patch)))
	mux.Handle("PATCH /pricing-periods/{periodID}", priceAdmin(http.HandlerFunc(deps.Pricing.PatchPeriod)))
	mux.Handle("POST /pricing-periods", priceAdmin(http.HandlerFunc(deps.Pricing.CreatePeriods)))
	mux.Handle("DELETE /pricing-periods", priceAdmin(http.HandlerFunc(deps.Pricing.DeletePeriods)))

	if deps.Seed != nil {
		mux.Handle("POST /internal/dev/seed", priceAdmin(deps.Seed))
	}
	if deps.PriceFeed != nil {
		mux.Handle("GET /ws/price-updates", deps.PriceFeed)
	}

	return mux
}

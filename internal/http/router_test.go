package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"touservice/internal/auth"
	"touservice/internal/http/handlers"
	"touservice/internal/http/middleware"
	"touservice/internal/models"
	"touservice/internal/repository"
	"touservice/internal/service"
)

type stubRegionStore struct {
	regions []models.Region
}

func (s *stubRegionStore) List(context.Context, repository.RegionFilter) ([]models.Region, error) {
	return s.regions, nil
}

func (s *stubRegionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Region, error) {
	for _, r := range s.regions {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubChargerStore struct {
	chargers map[uuid.UUID]models.Charger
}

func (s *stubChargerStore) GetByID(_ context.Context, id uuid.UUID) (*models.Charger, error) {
	c, ok := s.chargers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (s *stubChargerStore) List(context.Context, repository.ChargerFilter) ([]models.Charger, error) {
	out := make([]models.Charger, 0, len(s.chargers))
	for _, c := range s.chargers {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubChargerStore) Nearest(context.Context, repository.NearestQuery) ([]models.DistancedCharger, error) {
	return nil, nil
}

func (s *stubChargerStore) UpdatePricing(_ context.Context, id uuid.UUID, patch repository.ChargerPricingPatch) (*models.Charger, error) {
	c, ok := s.chargers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.PriceStatus != nil {
		c.PriceStatus = *patch.PriceStatus
	}
	if patch.ChargerPriceTier != nil {
		c.ChargerPriceTier = *patch.ChargerPriceTier
	}
	s.chargers[id] = c
	return &c, nil
}

type stubPeriodStore struct {
	periods []models.PricingPeriod
}

func (s *stubPeriodStore) ListByCharger(_ context.Context, chargerID uuid.UUID, status *models.PricingPeriodStatus) ([]models.PricingPeriod, error) {
	var out []models.PricingPeriod
	for _, p := range s.periods {
		if p.ChargerID != chargerID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPeriodStore) GetByID(_ context.Context, id uuid.UUID) (*models.PricingPeriod, error) {
	for _, p := range s.periods {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubPeriodStore) Update(_ context.Context, id uuid.UUID, patch repository.PricingPeriodPatch) (*models.PricingPeriod, error) {
	for i, p := range s.periods {
		if p.ID != id {
			continue
		}
		if patch.PricePerKWh != nil {
			p.PricePerKWh = *patch.PricePerKWh
		}
		if patch.DemandIndex != nil {
			p.DemandIndex = *patch.DemandIndex
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		s.periods[i] = p
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

type stubCache struct{}

func (stubCache) Get(context.Context, uuid.UUID) (*models.PricingPeriod, error) {
	return nil, redis.Nil
}
func (stubCache) Save(context.Context, uuid.UUID, models.PricingPeriod) error { return nil }
func (stubCache) Invalidate(context.Context, uuid.UUID) error                 { return nil }

type testEnv struct {
	router    http.Handler
	tokens    *auth.TokenService
	chargerID uuid.UUID
	periodID  uuid.UUID
	pendingID uuid.UUID
	gappedID  uuid.UUID
}

const testAPIKey = "router-test-key"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()

	chargerID := uuid.New()
	pendingID := uuid.New()
	gappedID := uuid.New()
	regionID := uuid.New()

	chargers := &stubChargerStore{chargers: map[uuid.UUID]models.Charger{
		chargerID: {
			ID:               chargerID,
			RegionID:         regionID,
			TimeZone:         "UTC",
			ChargerPriceTier: 3,
			PriceStatus:      models.ChargerPriceUpToDate,
			Operational:      true,
		},
		pendingID: {
			ID:          pendingID,
			RegionID:    regionID,
			TimeZone:    "UTC",
			PriceStatus: models.ChargerPricePending,
			Operational: true,
		},
		gappedID: {
			ID:          gappedID,
			RegionID:    regionID,
			TimeZone:    "UTC",
			PriceStatus: models.ChargerPriceUpToDate,
			Operational: true,
		},
	}}

	// A single degenerate-wrap period covers the whole day, so resolution
	// succeeds regardless of wall-clock time. The gapped charger has none.
	periodID := uuid.New()
	periods := &stubPeriodStore{periods: []models.PricingPeriod{
		{
			ID:          periodID,
			ChargerID:   chargerID,
			StartTime:   models.NewTimeOfDay(0, 0, 0),
			EndTime:     models.NewTimeOfDay(0, 0, 0),
			DemandIndex: 3,
			PricePerKWh: 0.31,
			Status:      models.PeriodUpToDate,
		},
	}}

	regions := &stubRegionStore{regions: []models.Region{
		{ID: regionID, Name: "Alameda", StateCode: "CA", RegionPriceTier: 4},
	}}

	svc := service.NewTOUService(regions, chargers, periods, stubCache{}, nil, logger)

	hash, err := auth.HashKey(testAPIKey)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	verifier, err := auth.NewKeyVerifier(hash)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	tokens := auth.NewTokenService("router-test-secret", time.Hour)

	deps := RouterDeps{
		Health:   handlers.NewHealthHandler(),
		Auth:     handlers.NewAuthHandler(verifier, tokens, time.Hour, logger),
		Regions:  handlers.NewRegionsHandler(svc, logger),
		Chargers: handlers.NewChargersHandler(svc, logger),
		Pricing:  handlers.NewPricingHandler(svc, logger),
	}

	return &testEnv{
		router:    NewRouter(deps, middleware.RequireRole(tokens, auth.RolePriceAdmin)),
		tokens:    tokens,
		chargerID: chargerID,
		periodID:  periodID,
		pendingID: pendingID,
		gappedID:  gappedID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(auth.RolePriceAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTokenExchange(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/token", `{"api_key":"`+testAPIKey+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("expected an access token, got %v", body)
	}
	if _, err := env.tokens.ValidateToken(token); err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
}

func TestTokenExchangeRejectsBadKey(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/token", `{"api_key":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCurrentPricingPeriodEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/"+env.chargerID.String()+"/current-pricing-period", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] != env.periodID.String() {
		t.Fatalf("resolved period id = %v, want %s", body["id"], env.periodID)
	}
	if body["start_time"] != "00:00:00" {
		t.Fatalf("start_time = %v", body["start_time"])
	}
	if body["kind"] != "PricingPeriod" {
		t.Fatalf("kind = %v", body["kind"])
	}
}

func TestCurrentPricingPeriodPendingChargerReturns503(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/"+env.pendingID.String()+"/current-pricing-period", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "maintenance") {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestCurrentPricingPeriodEmptyScheduleReturns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/"+env.gappedID.String()+"/current-pricing-period", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCurrentPricingPeriodUnknownChargerReturns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/"+uuid.NewString()+"/current-pricing-period", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCurrentPricingPeriodBadIDReturns400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/not-a-uuid/current-pricing-period", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPricingScheduleEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/chargers/"+env.chargerID.String()+"/pricing-schedule", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["kind"] != "Collection" {
		t.Fatalf("kind = %v", body["kind"])
	}
	if count, _ := body["count"].(float64); count != 1 {
		t.Fatalf("count = %v", body["count"])
	}
}

func TestRegionsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/regions", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if count, _ := body["count"].(float64); count != 1 {
		t.Fatalf("count = %v", body["count"])
	}
}

func TestNearestChargersRequiresParams(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/nearest-chargers?lat=37.77", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPatchChargerRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/chargers/"+env.chargerID.String(), `{"price_status":"pending"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPatchChargerRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/chargers/"+env.chargerID.String(), `{"price_status":"pending"}`, "garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPatchChargerWithToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPatch, "/chargers/"+env.chargerID.String(), `{"price_status":"pending"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["price_status"] != "pending" {
		t.Fatalf("price_status = %v", body["price_status"])
	}

	// Serving the schedule is now rejected until the update lands.
	rec = env.do(t, http.MethodGet, "/chargers/"+env.chargerID.String()+"/pricing-schedule", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("schedule status = %d after pending patch", rec.Code)
	}
}

func TestPatchChargerRejectsBadPatch(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPatch, "/chargers/"+env.chargerID.String(), `{"charger_price_tier":9}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPatchPricingPeriodWithToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPatch, "/pricing-periods/"+env.periodID.String(), `{"price_per_kwh":0.55,"status":"stale"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if price, _ := body["price_per_kwh"].(float64); price != 0.55 {
		t.Fatalf("price_per_kwh = %v", body["price_per_kwh"])
	}
	if body["status"] != "stale" {
		t.Fatalf("status = %v", body["status"])
	}
}

func TestCreateAndDeletePeriodsNotImplemented(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/pricing-periods", `{}`, token)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/pricing-periods", "", token)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

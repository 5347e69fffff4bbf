package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"touservice/internal/models"
	"touservice/internal/repository"
	"touservice/internal/service"
)

// ChargersHandler serves charger lookups and pricing patches.
type ChargersHandler struct {
	svc    *service.TOUService
	logger *zap.Logger
}

// NewChargersHandler builds handler.
func NewChargersHandler(svc *service.TOUService, logger *zap.Logger) *ChargersHandler {
	return &ChargersHandler{svc: svc, logger: logger}
}

// List handles GET /chargers.
func (h *ChargersHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.ChargerFilter{
		OperationalOnly: queryBool(query.Get("operational_only")),
		NotInUseOnly:    queryBool(query.Get("not_in_use_only")),
	}
	if raw := query.Get("region_id"); raw != "" {
		regionID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid region_id")
			return
		}
		filter.RegionID = &regionID
	}

	chargers, err := h.svc.Chargers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	contents := make([]ChargerDTO, 0, len(chargers))
	for _, charger := range chargers {
		contents = append(contents, newChargerDTO(charger))
	}
	writeJSON(w, http.StatusOK, ChargersDTO{
		Self:     "/chargers",
		Kind:     "Collection",
		Count:    len(contents),
		Contents: contents,
	})
}

// Get handles GET /chargers/{chargerID}.
func (h *ChargersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("chargerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charger id")
		return
	}

	charger, err := h.svc.Charger(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newChargerDTO(*charger))
}

// Nearest handles GET /nearest-chargers.
func (h *ChargersHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon is required and must be a number")
		return
	}
	count, err := strconv.Atoi(query.Get("count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "count is required and must be an integer")
		return
	}

	operationalOnly := true
	if raw := query.Get("operational_only"); raw != "" {
		operationalOnly = queryBool(raw)
	}

	q := repository.NearestQuery{
		Latitude:        lat,
		Longitude:       lon,
		Count:           count,
		OperationalOnly: operationalOnly,
		NotInUseOnly:    queryBool(query.Get("not_in_use_only")),
	}

	chargers, err := h.svc.NearestChargers(r.Context(), q)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	contents := make([]DistancedChargerDTO, 0, len(chargers))
	for _, charger := range chargers {
		contents = append(contents, newDistancedChargerDTO(charger))
	}
	writeJSON(w, http.StatusOK, DistancedChargersDTO{
		Self:     fmt.Sprintf("/nearest-chargers?lat=%v&lon=%v&count=%d", lat, lon, count),
		Kind:     "Collection",
		Count:    len(contents),
		Contents: contents,
	})
}

type chargerPatchRequest struct {
	PriceStatus      *string `json:"price_status"`
	ChargerPriceTier *int    `json:"charger_price_tier"`
}

// Patch handles PATCH /chargers/{chargerID}.
func (h *ChargersHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("chargerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charger id")
		return
	}

	var req chargerPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := repository.ChargerPricingPatch{
		ChargerPriceTier: req.ChargerPriceTier,
	}
	if req.PriceStatus != nil {
		status := models.ChargerPriceStatus(*req.PriceStatus)
		patch.PriceStatus = &status
	}

	charger, err := h.svc.UpdateCharger(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newChargerDTO(*charger))
}

func queryBool(raw string) bool {
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}

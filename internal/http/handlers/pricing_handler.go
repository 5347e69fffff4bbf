package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"touservice/internal/models"
	"touservice/internal/repository"
	"touservice/internal/service"
)

// PricingHandler serves pricing schedules and period lookups/mutations.
type PricingHandler struct {
	svc    *service.TOUService
	logger *zap.Logger
}

// NewPricingHandler builds handler.
func NewPricingHandler(svc *service.TOUService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{svc: svc, logger: logger}
}

// Schedule handles GET /chargers/{chargerID}/pricing-schedule.
func (h *PricingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	chargerID, err := uuid.Parse(r.PathValue("chargerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charger id")
		return
	}

	periods, err := h.svc.PricingSchedule(r.Context(), chargerID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedulePayload(
		fmt.Sprintf("/chargers/%s/pricing-schedule", chargerID),
		chargerID,
		periods,
	))
}

// CurrentPeriod handles GET /chargers/{chargerID}/current-pricing-period.
// The applicable period is evaluated against the charger's own time zone,
// not the caller's.
func (h *PricingHandler) CurrentPeriod(w http.ResponseWriter, r *http.Request) {
	chargerID, err := uuid.Parse(r.PathValue("chargerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charger id")
		return
	}

	period, err := h.svc.CurrentPricingPeriod(r.Context(), chargerID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPeriodDTO(*period))
}

// PeriodsByCharger handles GET /chargers/{chargerID}/pricing-periods.
func (h *PricingHandler) PeriodsByCharger(w http.ResponseWriter, r *http.Request) {
	chargerID, err := uuid.Parse(r.PathValue("chargerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charger id")
		return
	}

	var status *models.PricingPeriodStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.PricingPeriodStatus(raw)
		status = &s
	}

	periods, err := h.svc.PricingPeriods(r.Context(), chargerID, status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedulePayload(
		fmt.Sprintf("/chargers/%s/pricing-periods", chargerID),
		chargerID,
		periods,
	))
}

// PeriodByID handles GET /pricing-periods/{periodID}.
func (h *PricingHandler) PeriodByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("periodID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pricing period id")
		return
	}

	period, err := h.svc.PricingPeriod(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPeriodDTO(*period))
}

type periodPatchRequest struct {
	PricePerKWh *float64 `json:"price_per_kwh"`
	DemandIndex *int     `json:"demand_index"`
	Status      *string  `json:"status"`
}

// PatchPeriod handles PATCH /pricing-periods/{periodID}.
func (h *PricingHandler) PatchPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("periodID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pricing period id")
		return
	}

	var req periodPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := repository.PricingPeriodPatch{
		PricePerKWh: req.PricePerKWh,
		DemandIndex: req.DemandIndex,
	}
	if req.Status != nil {
		status := models.PricingPeriodStatus(*req.Status)
		patch.Status = &status
	}

	period, err := h.svc.UpdatePricingPeriod(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPeriodDTO(*period))
}

// CreatePeriods handles POST /pricing-periods. Declared extension point;
// schedules are currently created whole by the bootstrap path.
func (h *PricingHandler) CreatePeriods(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "pricing period creation is not implemented")
}

// DeletePeriods handles DELETE /pricing-periods. Declared extension point.
func (h *PricingHandler) DeletePeriods(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "pricing period deletion is not implemented")
}

func schedulePayload(self string, chargerID uuid.UUID, periods []models.PricingPeriod) PricingScheduleDTO {
	dtos := make([]PricingPeriodDTO, 0, len(periods))
	for _, period := range periods {
		dtos = append(dtos, newPeriodDTO(period))
	}
	return PricingScheduleDTO{
		Self:           self,
		Kind:           "Collection",
		Count:          len(dtos),
		ChargerID:      chargerID.String(),
		PricingPeriods: dtos,
	}
}

package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"touservice/internal/repository"
	"touservice/internal/service"
)

// RegionsHandler serves region lookups.
type RegionsHandler struct {
	svc    *service.TOUService
	logger *zap.Logger
}

// NewRegionsHandler builds handler.
func NewRegionsHandler(svc *service.TOUService, logger *zap.Logger) *RegionsHandler {
	return &RegionsHandler{svc: svc, logger: logger}
}

// List handles GET /regions.
func (h *RegionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.RegionFilter{
		StateCode: r.URL.Query().Get("state_code"),
		NameLike:  r.URL.Query().Get("name_like"),
	}

	regions, err := h.svc.Regions(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	contents := make([]RegionDTO, 0, len(regions))
	for _, region := range regions {
		contents = append(contents, newRegionDTO(region))
	}
	writeJSON(w, http.StatusOK, RegionsDTO{
		Self:     "/regions",
		Kind:     "Collection",
		Count:    len(contents),
		Contents: contents,
	})
}

// Get handles GET /regions/{regionID}.
func (h *RegionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("regionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid region id")
		return
	}

	region, err := h.svc.Region(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newRegionDTO(*region))
}

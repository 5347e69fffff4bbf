package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Seeder loads the development dataset.
type Seeder interface {
	Run(ctx context.Context) error
}

// NewSeedHandler returns POST /internal/dev/seed handler.
func NewSeedHandler(seeder Seeder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := seeder.Run(r.Context()); err != nil {
			logger.Error("dev seed failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to seed dev data")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "seeded"})
	}
}

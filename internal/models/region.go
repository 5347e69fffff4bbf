package models

import (
	"time"

	"github.com/google/uuid"
)

// Region groups chargers under one jurisdiction and coarse price tier (1-5).
type Region struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	StateCode       string    `db:"state_code" json:"state_code"`
	RegionPriceTier int       `db:"region_price_tier" json:"region_price_tier"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

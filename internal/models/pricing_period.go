package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingPeriod is one time-of-day window of a charger's TOU schedule.
// A period whose end is lexically at or before its start wraps midnight.
// PricePerKWh is stored at write time, not re-derived on lookup.
type PricingPeriod struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	ChargerID   uuid.UUID           `db:"charger_id" json:"charger_id"`
	StartTime   TimeOfDay           `db:"start_time" json:"start_time"`
	EndTime     TimeOfDay           `db:"end_time" json:"end_time"`
	DemandIndex int                 `db:"demand_index" json:"demand_index"`
	PricePerKWh float64             `db:"price_per_kwh" json:"price_per_kwh"`
	Status      PricingPeriodStatus `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Charger is a physical charging point. TimeZone is the IANA zone in which
// the charger's pricing periods are interpreted; it is not necessarily the
// zone of the caller.
type Charger struct {
	ID               uuid.UUID          `db:"id" json:"id"`
	RegionID         uuid.UUID          `db:"region_id" json:"region_id"`
	Longitude        float64            `db:"longitude" json:"longitude"`
	Latitude         float64            `db:"latitude" json:"latitude"`
	TimeZone         string             `db:"time_zone" json:"time_zone"`
	InUse            bool               `db:"in_use" json:"in_use"`
	ChargerPriceTier int                `db:"charger_price_tier" json:"charger_price_tier"`
	PriceStatus      ChargerPriceStatus `db:"price_status" json:"price_status"`
	Operational      bool               `db:"operational" json:"operational"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updated_at"`
}

// DistancedCharger is a charger annotated with its distance from a query point.
type DistancedCharger struct {
	Charger
	DistanceMeters float64 `db:"distance_meters" json:"distance_meters"`
}

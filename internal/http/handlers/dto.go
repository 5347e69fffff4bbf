package handlers

import (
	"fmt"
	"math"

	"touservice/internal/models"
)

// Response DTOs follow the collection envelope convention: every resource
// carries a self link and a kind, collections carry a count.

// GeoJSONPoint renders a charger location as (longitude, latitude).
type GeoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// RegionDTO is the wire shape of a region.
type RegionDTO struct {
	Self            string `json:"self"`
	Kind            string `json:"kind"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	StateCode       string `json:"state_code"`
	RegionPriceTier int    `json:"region_price_tier"`
}

// RegionsDTO is a collection of regions.
type RegionsDTO struct {
	Self     string      `json:"self"`
	Kind     string      `json:"kind"`
	Count    int         `json:"count"`
	Contents []RegionDTO `json:"contents"`
}

// ChargerDTO is the wire shape of a charger.
type ChargerDTO struct {
	Self             string       `json:"self"`
	Kind             string       `json:"kind"`
	ID               string       `json:"id"`
	RegionID         string       `json:"region_id"`
	Location         GeoJSONPoint `json:"location"`
	TimeZone         string       `json:"time_zone"`
	InUse            bool         `json:"in_use"`
	ChargerPriceTier int          `json:"charger_price_tier"`
	PriceStatus      string       `json:"price_status"`
	Operational      bool         `json:"operational"`
}

// ChargersDTO is a collection of chargers.
type ChargersDTO struct {
	Self     string       `json:"self"`
	Kind     string       `json:"kind"`
	Count    int          `json:"count"`
	Contents []ChargerDTO `json:"contents"`
}

// DistancedChargerDTO is a charger with its distance from the query point.
type DistancedChargerDTO struct {
	ChargerDTO
	DistanceMeters float64 `json:"distance_meters"`
}

// DistancedChargersDTO is a collection of distanced chargers.
type DistancedChargersDTO struct {
	Self     string                `json:"self"`
	Kind     string                `json:"kind"`
	Count    int                   `json:"count"`
	Contents []DistancedChargerDTO `json:"contents"`
}

// PricingPeriodDTO is the wire shape of a pricing period. Times render as
// ISO local-time strings.
type PricingPeriodDTO struct {
	Self        string           `json:"self"`
	Kind        string           `json:"kind"`
	ID          string           `json:"id"`
	ChargerID   string           `json:"charger_id"`
	StartTime   models.TimeOfDay `json:"start_time"`
	EndTime     models.TimeOfDay `json:"end_time"`
	DemandIndex int              `json:"demand_index"`
	PricePerKWh float64          `json:"price_per_kwh"`
	Status      string           `json:"status"`
}

// PricingScheduleDTO is a charger's collection of pricing periods.
type PricingScheduleDTO struct {
	Self           string             `json:"self"`
	Kind           string             `json:"kind"`
	Count          int                `json:"count"`
	ChargerID      string             `json:"charger_id"`
	PricingPeriods []PricingPeriodDTO `json:"pricing_periods"`
}

func newRegionDTO(region models.Region) RegionDTO {
	return RegionDTO{
		Self:            fmt.Sprintf("/regions/%s", region.ID),
		Kind:            "Region",
		ID:              region.ID.String(),
		Name:            region.Name,
		StateCode:       region.StateCode,
		RegionPriceTier: region.RegionPriceTier,
	}
}

func newChargerDTO(charger models.Charger) ChargerDTO {
	return ChargerDTO{
		Self:     fmt.Sprintf("/chargers/%s", charger.ID),
		Kind:     "Charger",
		ID:       charger.ID.String(),
		RegionID: charger.RegionID.String(),
		Location: GeoJSONPoint{
			Type:        "Point",
			Coordinates: [2]float64{charger.Longitude, charger.Latitude},
		},
		TimeZone:         charger.TimeZone,
		InUse:            charger.InUse,
		ChargerPriceTier: charger.ChargerPriceTier,
		PriceStatus:      string(charger.PriceStatus),
		Operational:      charger.Operational,
	}
}

func newDistancedChargerDTO(charger models.DistancedCharger) DistancedChargerDTO {
	return DistancedChargerDTO{
		ChargerDTO:     newChargerDTO(charger.Charger),
		DistanceMeters: math.Round(charger.DistanceMeters*100) / 100,
	}
}

func newPeriodDTO(period models.PricingPeriod) PricingPeriodDTO {
	return PricingPeriodDTO{
		Self:        fmt.Sprintf("/pricing-periods/%s", period.ID),
		Kind:        "PricingPeriod",
		ID:          period.ID.String(),
		ChargerID:   period.ChargerID.String(),
		StartTime:   period.StartTime,
		EndTime:     period.EndTime,
		DemandIndex: period.DemandIndex,
		PricePerKWh: period.PricePerKWh,
		Status:      string(period.Status),
	}
}

package models

// ChargerPriceStatus reflects whether a charger's schedule is queryable.
// PENDING means a pricing update is in flight and the periods may be
// inconsistent, so schedule reads are rejected.
type ChargerPriceStatus string

const (
	ChargerPriceUpToDate ChargerPriceStatus = "up_to_date"
	ChargerPricePending  ChargerPriceStatus = "pending"
)

// Valid reports whether the value is a known charger price status.
func (s ChargerPriceStatus) Valid() bool {
	return s == ChargerPriceUpToDate || s == ChargerPricePending
}

// PricingPeriodStatus marks the freshness of a single period. STALE prices
// are known outdated but still served as the best available answer.
type PricingPeriodStatus string

const (
	PeriodUpToDate PricingPeriodStatus = "up_to_date"
	PeriodStale    PricingPeriodStatus = "stale"
)

// Valid reports whether the value is a known pricing period status.
func (s PricingPeriodStatus) Valid() bool {
	return s == PeriodUpToDate || s == PeriodStale
}

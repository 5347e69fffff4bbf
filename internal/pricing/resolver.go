// Package pricing holds the current-pricing-period resolution logic: pure
// functions over a charger's pricing periods and a local wall-clock time.
package pricing

import "touservice/internal/models"

// InInterval reports whether check falls inside [start, end]. Both endpoints
// are inclusive, so two adjacent periods sharing a boundary instant both
// report membership at that instant. When start >= end the interval wraps
// midnight; start == end covers the entire day.
func InInterval(check, start, end models.TimeOfDay) bool {
	if start < end {
		return start <= check && check <= end
	}
	return check >= start || check <= end
}

// ResolveCurrentPeriod picks the period governing pricing at now, in the
// charger's own time zone. The first matching period is the default answer;
// the first matching UP_TO_DATE period wins outright, so a fresh price beats
// a stale one covering the same instant while a full day of stale periods
// still resolves. Callers pass periods sorted by start time, which makes
// "first" mean "earliest start". The second return is false when no period
// covers now, which a complete 24h schedule never produces.
func ResolveCurrentPeriod(periods []models.PricingPeriod, now models.TimeOfDay) (models.PricingPeriod, bool) {
	var candidate models.PricingPeriod
	found := false

	for _, period := range periods {
		if !InInterval(now, period.StartTime, period.EndTime) {
			continue
		}
		if period.Status == models.PeriodUpToDate {
			return period, true
		}
		if !found {
			candidate = period
			found = true
		}
	}

	return candidate, found
}

package pricing

import (
	"testing"

	"github.com/google/uuid"

	"touservice/internal/models"
)

func tod(h, m int) models.TimeOfDay {
	return models.NewTimeOfDay(h, m, 0)
}

func TestInIntervalOrdinary(t *testing.T) {
	start, end := tod(9, 0), tod(12, 0)

	cases := []struct {
		name  string
		check models.TimeOfDay
		want  bool
	}{
		{"before start", tod(8, 59), false},
		{"at start", tod(9, 0), true},
		{"inside", tod(10, 30), true},
		{"at end", tod(12, 0), true},
		{"after end", tod(12, 1), false},
		{"midnight", tod(0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InInterval(tc.check, start, end); got != tc.want {
				t.Fatalf("InInterval(%s, %s, %s) = %v, want %v", tc.check, start, end, got, tc.want)
			}
		})
	}
}

func TestInIntervalWrapsMidnight(t *testing.T) {
	start, end := tod(21, 0), tod(6, 0)

	cases := []struct {
		name  string
		check models.TimeOfDay
		want  bool
	}{
		{"late evening", tod(23, 0), true},
		{"early morning", tod(3, 0), true},
		{"at start", tod(21, 0), true},
		{"at end", tod(6, 0), true},
		{"midday", tod(12, 0), false},
		{"just before start", tod(20, 59), false},
		{"just after end", tod(6, 1), false},
		{"midnight", tod(0, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InInterval(tc.check, start, end); got != tc.want {
				t.Fatalf("InInterval(%s, %s, %s) = %v, want %v", tc.check, start, end, got, tc.want)
			}
		})
	}
}

func TestInIntervalDegenerateWrapCoversWholeDay(t *testing.T) {
	start, end := tod(0, 0), tod(0, 0)

	for _, check := range []models.TimeOfDay{tod(0, 0), tod(6, 30), tod(12, 0), tod(23, 59)} {
		if !InInterval(check, start, end) {
			t.Fatalf("expected %s to be inside degenerate wrap interval", check)
		}
	}
}

func TestInIntervalSharedBoundaryBelongsToBoth(t *testing.T) {
	// Adjacent periods share their boundary instant; both report membership.
	boundary := tod(12, 0)
	if !InInterval(boundary, tod(9, 0), tod(12, 0)) {
		t.Fatalf("expected boundary to belong to earlier interval")
	}
	if !InInterval(boundary, tod(12, 0), tod(15, 0)) {
		t.Fatalf("expected boundary to belong to later interval")
	}
}

func period(startH, endH int, status models.PricingPeriodStatus) models.PricingPeriod {
	return models.PricingPeriod{
		ID:          uuid.New(),
		StartTime:   tod(startH, 0),
		EndTime:     tod(endH, 0),
		DemandIndex: 3,
		PricePerKWh: 0.31,
		Status:      status,
	}
}

func TestResolveCurrentPeriodFullSchedule(t *testing.T) {
	periods := []models.PricingPeriod{
		period(0, 9, models.PeriodUpToDate),
		period(9, 12, models.PeriodUpToDate),
		period(12, 15, models.PeriodUpToDate),
		period(15, 0, models.PeriodUpToDate),
	}

	resolved, ok := ResolveCurrentPeriod(periods, tod(10, 30))
	if !ok {
		t.Fatalf("expected a resolved period")
	}
	if resolved.ID != periods[1].ID {
		t.Fatalf("expected the 09:00-12:00 period, got %s-%s", resolved.StartTime, resolved.EndTime)
	}
}

func TestResolveCurrentPeriodPrefersUpToDateOverStale(t *testing.T) {
	stale := period(9, 12, models.PeriodStale)
	fresh := period(10, 14, models.PeriodUpToDate)

	// The fresh period must win regardless of encounter order.
	for name, periods := range map[string][]models.PricingPeriod{
		"stale first": {stale, fresh},
		"fresh first": {fresh, stale},
	} {
		resolved, ok := ResolveCurrentPeriod(periods, tod(11, 0))
		if !ok {
			t.Fatalf("%s: expected a resolved period", name)
		}
		if resolved.ID != fresh.ID {
			t.Fatalf("%s: expected the up_to_date period, got status %s", name, resolved.Status)
		}
	}
}

func TestResolveCurrentPeriodStaleOnlyStillResolves(t *testing.T) {
	periods := []models.PricingPeriod{
		period(0, 9, models.PeriodStale),
		period(9, 12, models.PeriodStale),
		period(12, 15, models.PeriodStale),
		period(15, 0, models.PeriodStale),
	}

	resolved, ok := ResolveCurrentPeriod(periods, tod(13, 45))
	if !ok {
		t.Fatalf("expected a stale period to still resolve")
	}
	if resolved.ID != periods[2].ID {
		t.Fatalf("expected the 12:00-15:00 period, got %s-%s", resolved.StartTime, resolved.EndTime)
	}
	if resolved.Status != models.PeriodStale {
		t.Fatalf("expected stale status, got %s", resolved.Status)
	}
}

func TestResolveCurrentPeriodGapReturnsNothing(t *testing.T) {
	periods := []models.PricingPeriod{
		period(0, 9, models.PeriodUpToDate),
		period(12, 15, models.PeriodUpToDate),
	}

	if _, ok := ResolveCurrentPeriod(periods, tod(10, 0)); ok {
		t.Fatalf("expected no resolution inside a schedule gap")
	}
}

func TestResolveCurrentPeriodEmptyInput(t *testing.T) {
	if _, ok := ResolveCurrentPeriod(nil, tod(10, 0)); ok {
		t.Fatalf("expected no resolution for empty input")
	}
}

func TestResolveCurrentPeriodFirstUpToDateWinsAtSharedBoundary(t *testing.T) {
	first := period(9, 12, models.PeriodUpToDate)
	second := period(12, 15, models.PeriodUpToDate)

	// Sorted by start time, the earlier period is encountered first at the
	// shared boundary instant.
	resolved, ok := ResolveCurrentPeriod([]models.PricingPeriod{first, second}, tod(12, 0))
	if !ok {
		t.Fatalf("expected a resolved period")
	}
	if resolved.ID != first.ID {
		t.Fatalf("expected the earliest-starting period at the shared boundary")
	}
}

func TestResolveCurrentPeriodWrapCoversBothSidesOfMidnight(t *testing.T) {
	wrap := period(21, 6, models.PeriodUpToDate)
	day := period(6, 21, models.PeriodUpToDate)
	periods := []models.PricingPeriod{day, wrap}

	for _, check := range []models.TimeOfDay{tod(23, 30), tod(2, 0)} {
		resolved, ok := ResolveCurrentPeriod(periods, check)
		if !ok {
			t.Fatalf("expected resolution at %s", check)
		}
		if resolved.ID != wrap.ID {
			t.Fatalf("expected the wrap period at %s, got %s-%s", check, resolved.StartTime, resolved.EndTime)
		}
	}
}

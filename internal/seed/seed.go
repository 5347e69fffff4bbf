// Package seed loads a small deterministic development dataset: regions,
// chargers in two time zones and complete 24h pricing schedules.
package seed

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"touservice/internal/models"
	"touservice/internal/repository"
)

// Seeder inserts the dev dataset. It assumes the schema already exists.
type Seeder struct {
	regions  *repository.RegionRepository
	chargers *repository.ChargerRepository
	periods  *repository.PricingPeriodRepository
	logger   *zap.Logger
}

// NewSeeder builds seeder.
func NewSeeder(
	regions *repository.RegionRepository,
	chargers *repository.ChargerRepository,
	periods *repository.PricingPeriodRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		regions:  regions,
		chargers: chargers,
		periods:  periods,
		logger:   logger,
	}
}

type chargerSpec struct {
	lon, lat    float64
	timeZone    string
	priceTier   int
	inUse       bool
	operational bool
	layout      []models.TimeOfDay // period boundaries; last period wraps to the first
	demand      []int
	stale       int // index of a STALE period, -1 for none
}

// Run inserts the dataset. Not idempotent; intended for empty dev databases.
func (s *Seeder) Run(ctx context.Context) error {
	alameda := &models.Region{Name: "Alameda County", StateCode: "CA", RegionPriceTier: 4}
	contraCosta := &models.Region{Name: "Contra Costa County", StateCode: "CA", RegionPriceTier: 4}
	maricopa := &models.Region{Name: "Maricopa County", StateCode: "AZ", RegionPriceTier: 2}

	for _, region := range []*models.Region{alameda, contraCosta, maricopa} {
		if err := s.regions.Create(ctx, region); err != nil {
			return fmt.Errorf("seed region %s: %w", region.Name, err)
		}
	}

	specs := map[*models.Region][]chargerSpec{
		alameda: {
			{
				lon: -122.21741, lat: 37.79961,
				timeZone: "America/Los_Angeles", priceTier: 1, operational: true,
				layout: boundaries(0, 9, 12, 15),
				demand: []int{1, 3, 4, 2},
				stale:  -1,
			},
			{
				lon: -122.26803, lat: 37.80435,
				timeZone: "America/Los_Angeles", priceTier: 3, inUse: true, operational: true,
				layout: boundaries(0, 8, 11, 15, 18),
				demand: []int{1, 2, 4, 5, 3},
				stale:  2,
			},
		},
		contraCosta: {
			{
				lon: -122.03107, lat: 37.90575,
				timeZone: "America/Los_Angeles", priceTier: 2, operational: true,
				layout: boundaries(0, 7, 10, 13, 18, 21),
				demand: []int{1, 2, 3, 5, 4, 2},
				stale:  -1,
			},
		},
		maricopa: {
			{
				lon: -112.07404, lat: 33.44838,
				timeZone: "America/Phoenix", priceTier: 2, operational: true,
				layout: boundaries(0, 6, 9, 12, 15, 18, 21),
				demand: []int{1, 2, 3, 4, 5, 4, 2},
				stale:  4,
			},
		},
	}

	var chargerCount, periodCount int
	for region, regionSpecs := range specs {
		for _, spec := range regionSpecs {
			charger := &models.Charger{
				RegionID:         region.ID,
				Longitude:        spec.lon,
				Latitude:         spec.lat,
				TimeZone:         spec.timeZone,
				InUse:            spec.inUse,
				ChargerPriceTier: spec.priceTier,
				PriceStatus:      models.ChargerPriceUpToDate,
				Operational:      spec.operational,
			}
			if err := s.chargers.Create(ctx, charger); err != nil {
				return fmt.Errorf("seed charger in %s: %w", region.Name, err)
			}
			chargerCount++

			n, err := s.seedSchedule(ctx, region, charger, spec)
			if err != nil {
				return err
			}
			periodCount += n
		}
	}

	s.logger.Info("dev dataset loaded",
		zap.Int("regions", 3),
		zap.Int("chargers", chargerCount),
		zap.Int("pricing_periods", periodCount),
	)
	return nil
}

// seedSchedule tiles the full day: each period ends where the next starts,
// and the last wraps midnight back to the first boundary.
func (s *Seeder) seedSchedule(ctx context.Context, region *models.Region, charger *models.Charger, spec chargerSpec) (int, error) {
	for i := range spec.layout {
		start := spec.layout[i]
		end := spec.layout[(i+1)%len(spec.layout)]
		demand := spec.demand[i]

		status := models.PeriodUpToDate
		if i == spec.stale {
			status = models.PeriodStale
		}

		period := &models.PricingPeriod{
			ChargerID:   charger.ID,
			StartTime:   start,
			EndTime:     end,
			DemandIndex: demand,
			PricePerKWh: pricePerKWh(region.RegionPriceTier, charger.ChargerPriceTier, demand),
			Status:      status,
		}
		if err := s.periods.Create(ctx, period); err != nil {
			return 0, fmt.Errorf("seed period %s-%s for charger %s: %w", start, end, charger.ID, err)
		}
	}
	return len(spec.layout), nil
}

func boundaries(hours ...int) []models.TimeOfDay {
	out := make([]models.TimeOfDay, len(hours))
	for i, h := range hours {
		out[i] = models.NewTimeOfDay(h, 0, 0)
	}
	return out
}

func pricePerKWh(regionTier, chargerTier, demand int) float64 {
	price := float64(regionTier)*0.05 + float64(chargerTier)*0.02 + float64(demand)*0.03
	return math.Round(price*100) / 100
}

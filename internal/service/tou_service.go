package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"touservice/internal/models"
	"touservice/internal/pricing"
	"touservice/internal/repository"
)

// RegionStore abstracts region persistence.
type RegionStore interface {
	List(ctx context.Context, filter repository.RegionFilter) ([]models.Region, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
}

// ChargerStore abstracts charger persistence, including the geo query.
type ChargerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Charger, error)
	List(ctx context.Context, filter repository.ChargerFilter) ([]models.Charger, error)
	Nearest(ctx context.Context, q repository.NearestQuery) ([]models.DistancedCharger, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, patch repository.ChargerPricingPatch) (*models.Charger, error)
}

// PeriodStore abstracts pricing period persistence. ListByCharger must return
// periods ordered by start time; the resolver's first-match tie-break relies
// on it.
type PeriodStore interface {
	ListByCharger(ctx context.Context, chargerID uuid.UUID, status *models.PricingPeriodStatus) ([]models.PricingPeriod, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PricingPeriod, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.PricingPeriodPatch) (*models.PricingPeriod, error)
}

// PeriodCache caches resolved current periods per charger.
type PeriodCache interface {
	Get(ctx context.Context, chargerID uuid.UUID) (*models.PricingPeriod, error)
	Save(ctx context.Context, chargerID uuid.UUID, period models.PricingPeriod) error
	Invalidate(ctx context.Context, chargerID uuid.UUID) error
}

// PriceFeed receives price events for live subscribers.
type PriceFeed interface {
	BroadcastJSON(v interface{})
}

// Price event types published to the feed.
const (
	EventChargerPriceUpdated  = "charger_price_updated"
	EventPricingPeriodUpdated = "pricing_period_updated"
)

// PriceEvent is broadcast over the price-updates feed after a mutation.
type PriceEvent struct {
	Type        string     `json:"type"`
	ChargerID   uuid.UUID  `json:"charger_id"`
	PeriodID    *uuid.UUID `json:"period_id,omitempty"`
	PriceStatus string     `json:"price_status,omitempty"`
	At          time.Time  `json:"at"`
}

// TOUService orchestrates charger, region and pricing lookups.
type TOUService struct {
	regions  RegionStore
	chargers ChargerStore
	periods  PeriodStore
	cache    PeriodCache
	feed     PriceFeed
	logger   *zap.Logger

	nowFn func() time.Time
}

// NewTOUService builds service. Cache and feed may be nil.
func NewTOUService(
	regions RegionStore,
	chargers ChargerStore,
	periods PeriodStore,
	cache PeriodCache,
	feed PriceFeed,
	logger *zap.Logger,
) *TOUService {
	return &TOUService{
		regions:  regions,
		chargers: chargers,
		periods:  periods,
		cache:    cache,
		feed:     feed,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// Regions returns regions matching the filter.
func (s *TOUService) Regions(ctx context.Context, filter repository.RegionFilter) ([]models.Region, error) {
	return s.regions.List(ctx, filter)
}

// Region returns one region.
func (s *TOUService) Region(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, "region %s", id)
	}
	return region, nil
}

// Chargers returns chargers matching the filter.
func (s *TOUService) Chargers(ctx context.Context, filter repository.ChargerFilter) ([]models.Charger, error) {
	return s.chargers.List(ctx, filter)
}

// Charger returns one charger.
func (s *TOUService) Charger(ctx context.Context, id uuid.UUID) (*models.Charger, error) {
	charger, err := s.chargers.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, "charger %s", id)
	}
	return charger, nil
}

// NearestChargers returns up to q.Count chargers ordered by distance.
func (s *TOUService) NearestChargers(ctx context.Context, q repository.NearestQuery) ([]models.DistancedCharger, error) {
	if q.Count < 1 {
		return nil, fmt.Errorf("%w: count must be positive", ErrValidation)
	}
	if q.Latitude < -90 || q.Latitude > 90 {
		return nil, fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		return nil, fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	return s.chargers.Nearest(ctx, q)
}

// PricingSchedule returns a charger's full schedule sorted by start time.
// PENDING chargers are rejected, and an empty schedule on a queryable charger
// is a data-integrity failure.
func (s *TOUService) PricingSchedule(ctx context.Context, chargerID uuid.UUID) ([]models.PricingPeriod, error) {
	charger, err := s.Charger(ctx, chargerID)
	if err != nil {
		return nil, err
	}
	if charger.PriceStatus != models.ChargerPriceUpToDate {
		return nil, fmt.Errorf("charger %s: %w", chargerID, ErrScheduleUnavailable)
	}

	periods, err := s.periods.ListByCharger(ctx, chargerID, nil)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("charger %s has no pricing periods: %w", chargerID, ErrScheduleIncomplete)
	}
	return periods, nil
}

// CurrentPricingPeriod resolves the period governing pricing right now, in
// the charger's own time zone. The charger-level gate runs before any period
// is read; cached answers short-cut the resolution.
func (s *TOUService) CurrentPricingPeriod(ctx context.Context, chargerID uuid.UUID) (*models.PricingPeriod, error) {
	charger, err := s.Charger(ctx, chargerID)
	if err != nil {
		return nil, err
	}
	if charger.PriceStatus != models.ChargerPriceUpToDate {
		return nil, fmt.Errorf("charger %s: %w", chargerID, ErrScheduleUnavailable)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, chargerID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("current period cache read failed", zap.String("charger_id", chargerID.String()), zap.Error(err))
		}
	}

	loc, err := time.LoadLocation(charger.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("charger %s has invalid time zone %q: %w", chargerID, charger.TimeZone, err)
	}
	now := models.TimeOfDayFromTime(s.nowFn().In(loc))

	periods, err := s.periods.ListByCharger(ctx, chargerID, nil)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("charger %s has no pricing periods: %w", chargerID, ErrScheduleIncomplete)
	}

	resolved, ok := pricing.ResolveCurrentPeriod(periods, now)
	if !ok {
		return nil, fmt.Errorf("charger %s has no period covering %s: %w", chargerID, now, ErrScheduleIncomplete)
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, chargerID, resolved); err != nil {
			s.logger.Warn("current period cache write failed", zap.String("charger_id", chargerID.String()), zap.Error(err))
		}
	}
	return &resolved, nil
}

// PricingPeriods returns a charger's periods, optionally narrowed by status.
func (s *TOUService) PricingPeriods(ctx context.Context, chargerID uuid.UUID, status *models.PricingPeriodStatus) ([]models.PricingPeriod, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown period status %q", ErrValidation, *status)
	}
	if _, err := s.Charger(ctx, chargerID); err != nil {
		return nil, err
	}
	return s.periods.ListByCharger(ctx, chargerID, status)
}

// PricingPeriod returns one pricing period.
func (s *TOUService) PricingPeriod(ctx context.Context, id uuid.UUID) (*models.PricingPeriod, error) {
	period, err := s.periods.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, "pricing period %s", id)
	}
	return period, nil
}

// UpdateCharger patches a charger's price status or tier, invalidates its
// cached current period and notifies the price feed.
func (s *TOUService) UpdateCharger(ctx context.Context, id uuid.UUID, patch repository.ChargerPricingPatch) (*models.Charger, error) {
	if patch.PriceStatus != nil && !patch.PriceStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown price status %q", ErrValidation, *patch.PriceStatus)
	}
	if patch.ChargerPriceTier != nil && (*patch.ChargerPriceTier < 1 || *patch.ChargerPriceTier > 5) {
		return nil, fmt.Errorf("%w: charger price tier must be in [1,5]", ErrValidation)
	}

	charger, err := s.chargers.UpdatePricing(ctx, id, patch)
	if err != nil {
		return nil, mapNoRows(err, "charger %s", id)
	}

	s.invalidateCache(ctx, charger.ID)
	s.publish(PriceEvent{
		Type:        EventChargerPriceUpdated,
		ChargerID:   charger.ID,
		PriceStatus: string(charger.PriceStatus),
		At:          s.nowFn().UTC(),
	})
	return charger, nil
}

// UpdatePricingPeriod patches a period's price, demand index or status,
// invalidates the owning charger's cache and notifies the price feed.
func (s *TOUService) UpdatePricingPeriod(ctx context.Context, id uuid.UUID, patch repository.PricingPeriodPatch) (*models.PricingPeriod, error) {
	if patch.PricePerKWh != nil && *patch.PricePerKWh < 0 {
		return nil, fmt.Errorf("%w: price per kWh must not be negative", ErrValidation)
	}
	if patch.DemandIndex != nil && (*patch.DemandIndex < 1 || *patch.DemandIndex > 5) {
		return nil, fmt.Errorf("%w: demand index must be in [1,5]", ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown period status %q", ErrValidation, *patch.Status)
	}

	period, err := s.periods.Update(ctx, id, patch)
	if err != nil {
		return nil, mapNoRows(err, "pricing period %s", id)
	}

	s.invalidateCache(ctx, period.ChargerID)
	periodID := period.ID
	s.publish(PriceEvent{
		Type:      EventPricingPeriodUpdated,
		ChargerID: period.ChargerID,
		PeriodID:  &periodID,
		At:        s.nowFn().UTC(),
	})
	return period, nil
}

func (s *TOUService) invalidateCache(ctx context.Context, chargerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, chargerID); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("current period cache invalidation failed", zap.String("charger_id", chargerID.String()), zap.Error(err))
	}
}

func (s *TOUService) publish(event PriceEvent) {
	if s.feed == nil {
		return
	}
	s.feed.BroadcastJSON(event)
}

func mapNoRows(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}

package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"touservice/internal/models"
)

// Store caches resolved current pricing periods per charger. The TTL is kept
// short because the correct answer changes at period boundaries.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(chargerID uuid.UUID) string {
	return fmt.Sprintf("tou:current-period:%s", chargerID)
}

// Save caches the resolved period for a charger.
func (s *Store) Save(ctx context.Context, chargerID uuid.UUID, period models.PricingPeriod) error {
	data, err := json.Marshal(period)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(chargerID), data, s.ttl).Err()
}

// Get returns the cached period, or redis.Nil when absent.
func (s *Store) Get(ctx context.Context, chargerID uuid.UUID) (*models.PricingPeriod, error) {
	result, err := s.client.Get(ctx, s.key(chargerID)).Result()
	if err != nil {
		return nil, err
	}
	var period models.PricingPeriod
	if err := json.Unmarshal([]byte(result), &period); err != nil {
		return nil, err
	}
	return &period, nil
}

// Invalidate drops the cached period after a pricing mutation.
func (s *Store) Invalidate(ctx context.Context, chargerID uuid.UUID) error {
	return s.client.Del(ctx, s.key(chargerID)).Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"touservice/internal/models"
)

// RegionFilter narrows region lookups. Zero values mean no filtering.
type RegionFilter struct {
	StateCode string
	NameLike  string
}

// RegionRepository handles persistence of regions.
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository returns repository.
func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

const regionColumns = "id, name, state_code, region_price_tier, created_at"

// List returns regions matching the filter, name-sorted. Both filters are
// case insensitive.
func (r *RegionRepository) List(ctx context.Context, filter RegionFilter) ([]models.Region, error) {
	query := "SELECT " + regionColumns + " FROM regions"
	var conditions []string
	var args []interface{}

	if code := strings.TrimSpace(filter.StateCode); code != "" {
		args = append(args, strings.ToLower(code))
		conditions = append(conditions, fmt.Sprintf("LOWER(state_code) = $%d", len(args)))
	}
	if like := strings.TrimSpace(filter.NameLike); like != "" {
		args = append(args, "%"+strings.ToLower(like)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var region models.Region
		if err := rows.Scan(
			&region.ID,
			&region.Name,
			&region.StateCode,
			&region.RegionPriceTier,
			&region.CreatedAt,
		); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regions, nil
}

// GetByID returns one region or sql.ErrNoRows.
func (r *RegionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	const query = "SELECT " + regionColumns + " FROM regions WHERE id = $1"

	var region models.Region
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&region.ID,
		&region.Name,
		&region.StateCode,
		&region.RegionPriceTier,
		&region.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &region, nil
}

// Create inserts a region (bootstrap/seed path).
func (r *RegionRepository) Create(ctx context.Context, region *models.Region) error {
	const query = `
		INSERT INTO regions (id, name, state_code, region_price_tier, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	if region.ID == uuid.Nil {
		region.ID = uuid.New()
	}
	return r.db.QueryRowContext(ctx, query,
		region.ID,
		region.Name,
		region.StateCode,
		region.RegionPriceTier,
	).Scan(&region.CreatedAt)
}

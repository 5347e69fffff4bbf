package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"touservice/internal/models"
)

// ChargerFilter narrows charger lookups.
type ChargerFilter struct {
	OperationalOnly bool
	NotInUseOnly    bool
	RegionID        *uuid.UUID
}

// NearestQuery describes a nearest-chargers lookup around a point.
type NearestQuery struct {
	Latitude        float64
	Longitude       float64
	Count           int
	OperationalOnly bool
	NotInUseOnly    bool
}

// ChargerPricingPatch carries the mutable pricing fields of a charger.
// Nil fields are left untouched.
type ChargerPricingPatch struct {
	PriceStatus      *models.ChargerPriceStatus
	ChargerPriceTier *int
}

// ChargerRepository handles persistence of chargers, including the PostGIS
// point column.
type ChargerRepository struct {
	db *sql.DB
}

// NewChargerRepository returns repository.
func NewChargerRepository(db *sql.DB) *ChargerRepository {
	return &ChargerRepository{db: db}
}

const chargerColumns = `
	id, region_id,
	ST_X(location::geometry) AS longitude,
	ST_Y(location::geometry) AS latitude,
	time_zone, in_use, charger_price_tier, price_status, operational,
	created_at, updated_at
`

func scanCharger(row interface{ Scan(...interface{}) error }, c *models.Charger) error {
	return row.Scan(
		&c.ID,
		&c.RegionID,
		&c.Longitude,
		&c.Latitude,
		&c.TimeZone,
		&c.InUse,
		&c.ChargerPriceTier,
		&c.PriceStatus,
		&c.Operational,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// GetByID returns one charger or sql.ErrNoRows.
func (r *ChargerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Charger, error) {
	query := "SELECT " + chargerColumns + " FROM chargers WHERE id = $1"

	var charger models.Charger
	if err := scanCharger(r.db.QueryRowContext(ctx, query, id), &charger); err != nil {
		return nil, err
	}
	return &charger, nil
}

// List returns chargers matching the filter.
func (r *ChargerRepository) List(ctx context.Context, filter ChargerFilter) ([]models.Charger, error) {
	query := "SELECT " + chargerColumns + " FROM chargers"
	var conditions []string
	var args []interface{}

	if filter.OperationalOnly {
		conditions = append(conditions, "operational = TRUE")
	}
	if filter.NotInUseOnly {
		conditions = append(conditions, "in_use = FALSE")
	}
	if filter.RegionID != nil {
		args = append(args, *filter.RegionID)
		conditions = append(conditions, fmt.Sprintf("region_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.Charger
	for rows.Next() {
		var charger models.Charger
		if err := scanCharger(rows, &charger); err != nil {
			return nil, err
		}
		chargers = append(chargers, charger)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargers, nil
}

// Nearest returns up to q.Count chargers ordered by spherical distance from
// the query point.
func (r *ChargerRepository) Nearest(ctx context.Context, q NearestQuery) ([]models.DistancedCharger, error) {
	query := "SELECT " + chargerColumns + `,
		ST_DistanceSphere(location::geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326)) AS distance_meters
		FROM chargers`
	args := []interface{}{q.Longitude, q.Latitude}

	var conditions []string
	if q.OperationalOnly {
		conditions = append(conditions, "operational = TRUE")
	}
	if q.NotInUseOnly {
		conditions = append(conditions, "in_use = FALSE")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, q.Count)
	query += fmt.Sprintf(" ORDER BY distance_meters LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.DistancedCharger
	for rows.Next() {
		var c models.DistancedCharger
		if err := rows.Scan(
			&c.ID,
			&c.RegionID,
			&c.Longitude,
			&c.Latitude,
			&c.TimeZone,
			&c.InUse,
			&c.ChargerPriceTier,
			&c.PriceStatus,
			&c.Operational,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.DistanceMeters,
		); err != nil {
			return nil, err
		}
		chargers = append(chargers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargers, nil
}

// UpdatePricing applies the patch and returns the updated charger, or
// sql.ErrNoRows when the charger does not exist.
func (r *ChargerRepository) UpdatePricing(ctx context.Context, id uuid.UUID, patch ChargerPricingPatch) (*models.Charger, error) {
	query := `
		UPDATE chargers
		SET price_status = COALESCE($2, price_status),
		    charger_price_tier = COALESCE($3, charger_price_tier),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + chargerColumns

	var status *string
	if patch.PriceStatus != nil {
		s := string(*patch.PriceStatus)
		status = &s
	}

	var charger models.Charger
	if err := scanCharger(r.db.QueryRowContext(ctx, query, id, status, patch.ChargerPriceTier), &charger); err != nil {
		return nil, err
	}
	return &charger, nil
}

// Create inserts a charger (bootstrap/seed path).
func (r *ChargerRepository) Create(ctx context.Context, charger *models.Charger) error {
	const query = `
		INSERT INTO chargers (id, region_id, location, time_zone, in_use, charger_price_tier, price_status, operational, created_at, updated_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if charger.ID == uuid.Nil {
		charger.ID = uuid.New()
	}
	return r.db.QueryRowContext(ctx, query,
		charger.ID,
		charger.RegionID,
		charger.Longitude,
		charger.Latitude,
		charger.TimeZone,
		charger.InUse,
		charger.ChargerPriceTier,
		string(charger.PriceStatus),
		charger.Operational,
	).Scan(&charger.CreatedAt, &charger.UpdatedAt)
}

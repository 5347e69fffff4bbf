package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"touservice/internal/models"
)

// PricingPeriodPatch carries the mutable fields of a pricing period.
// Nil fields are left untouched.
type PricingPeriodPatch struct {
	PricePerKWh *float64
	DemandIndex *int
	Status      *models.PricingPeriodStatus
}

// PricingPeriodRepository handles persistence of pricing periods.
type PricingPeriodRepository struct {
	db *sql.DB
}

// NewPricingPeriodRepository returns repository.
func NewPricingPeriodRepository(db *sql.DB) *PricingPeriodRepository {
	return &PricingPeriodRepository{db: db}
}

const periodColumns = "id, charger_id, start_time, end_time, demand_index, price_per_kwh, status, created_at, updated_at"

func scanPeriod(row interface{ Scan(...interface{}) error }, p *models.PricingPeriod) error {
	return row.Scan(
		&p.ID,
		&p.ChargerID,
		&p.StartTime,
		&p.EndTime,
		&p.DemandIndex,
		&p.PricePerKWh,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// ListByCharger returns a charger's periods ordered by start time, so that
// "first match" during resolution means "earliest start". An optional status
// narrows the result.
func (r *PricingPeriodRepository) ListByCharger(ctx context.Context, chargerID uuid.UUID, status *models.PricingPeriodStatus) ([]models.PricingPeriod, error) {
	query := "SELECT " + periodColumns + " FROM pricing_periods WHERE charger_id = $1"
	args := []interface{}{chargerID}

	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY start_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []models.PricingPeriod
	for rows.Next() {
		var period models.PricingPeriod
		if err := scanPeriod(rows, &period); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}

// GetByID returns one pricing period or sql.ErrNoRows.
func (r *PricingPeriodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PricingPeriod, error) {
	query := "SELECT " + periodColumns + " FROM pricing_periods WHERE id = $1"

	var period models.PricingPeriod
	if err := scanPeriod(r.db.QueryRowContext(ctx, query, id), &period); err != nil {
		return nil, err
	}
	return &period, nil
}

// Update applies the patch and returns the updated period, or sql.ErrNoRows
// when the period does not exist.
func (r *PricingPeriodRepository) Update(ctx context.Context, id uuid.UUID, patch PricingPeriodPatch) (*models.PricingPeriod, error) {
	query := `
		UPDATE pricing_periods
		SET price_per_kwh = COALESCE($2, price_per_kwh),
		    demand_index = COALESCE($3, demand_index),
		    status = COALESCE($4, status),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + periodColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	var period models.PricingPeriod
	if err := scanPeriod(r.db.QueryRowContext(ctx, query, id, patch.PricePerKWh, patch.DemandIndex, status), &period); err != nil {
		return nil, err
	}
	return &period, nil
}

// Create inserts a pricing period (bootstrap/seed path). Periods reference
// their charger with ON DELETE CASCADE, so they never outlive it.
func (r *PricingPeriodRepository) Create(ctx context.Context, period *models.PricingPeriod) error {
	const query = `
		INSERT INTO pricing_periods (id, charger_id, start_time, end_time, demand_index, price_per_kwh, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if period.ID == uuid.Nil {
		period.ID = uuid.New()
	}
	return r.db.QueryRowContext(ctx, query,
		period.ID,
		period.ChargerID,
		period.StartTime,
		period.EndTime,
		period.DemandIndex,
		period.PricePerKWh,
		string(period.Status),
	).Scan(&period.CreatedAt, &period.UpdatedAt)
}

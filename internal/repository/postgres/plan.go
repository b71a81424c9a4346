package postgres

import (
	"context"
	"database/sql"
	"errors"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) List(ctx context.Context) ([]domain.Plan, error) {
	query := `SELECT id, name, tier, hourly_rate_cents, max_preauth_cents, active FROM plans WHERE active = true ORDER BY max_preauth_cents`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Tier, &p.HourlyRateCents, &p.MaxPreAuthCents, &p.Active); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepository) GetByID(ctx context.Context, id int32) (*domain.Plan, error) {
	p := &domain.Plan{}
	query := `SELECT id, name, tier, hourly_rate_cents, max_preauth_cents, active FROM plans WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Tier, &p.HourlyRateCents, &p.MaxPreAuthCents, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

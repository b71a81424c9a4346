package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, station_id, return_station_id, plan_id, power_bank_serial, start_time, end_time,
	hourly_rate_cents, max_preauth_cents, preauth_ref, final_amount_cents, status, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (user_id, station_id, plan_id, power_bank_serial, start_time,
	            hourly_rate_cents, max_preauth_cents, preauth_ref, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rt.UserID, rt.StationID, rt.PlanID, rt.PowerBankSerial, rt.StartTime,
		rt.HourlyRateCents, rt.MaxPreAuthCents, rt.PreAuthRef, rt.Status, now, now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetActiveByUser(ctx context.Context, userID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1 AND status = 'ACTIVE'`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET end_time=$1, return_station_id=$2, final_amount_cents=$3, status=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, rt.EndTime, rt.ReturnStationID, rt.FinalAmountCents, rt.Status, time.Now(), rt.ID)
	return err
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1`

	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = 'ACTIVE' ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *rentalRepository) scanOne(row *sql.Row) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.StationID, &rt.ReturnStationID, &rt.PlanID, &rt.PowerBankSerial,
		&rt.StartTime, &rt.EndTime, &rt.HourlyRateCents, &rt.MaxPreAuthCents, &rt.PreAuthRef,
		&rt.FinalAmountCents, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) scanMany(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(
			&rt.ID, &rt.UserID, &rt.StationID, &rt.ReturnStationID, &rt.PlanID, &rt.PowerBankSerial,
			&rt.StartTime, &rt.EndTime, &rt.HourlyRateCents, &rt.MaxPreAuthCents, &rt.PreAuthRef,
			&rt.FinalAmountCents, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn,
		); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

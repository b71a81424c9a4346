package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type stationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) repository.StationRepository {
	return &stationRepository{db: db}
}

const stationColumns = `id, name, address, latitude, longitude, total_slots, available_slots, status`

func (r *stationRepository) List(ctx context.Context) ([]domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStations(rows)
}

func (r *stationRepository) GetByID(ctx context.Context, id int32) (*domain.Station, error) {
	st := &domain.Station{}
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&st.ID, &st.Name, &st.Address, &st.Latitude, &st.Longitude, &st.TotalSlots, &st.AvailableSlots, &st.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Nearby selects stations inside a bounding box around the point and orders
// them by great-circle distance. One degree of latitude is ~111 km; the
// longitude span widens with latitude via cos(lat).
func (r *stationRepository) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Station, error) {
	query := `SELECT ` + stationColumns + `
	          FROM stations
	          WHERE status = 'ONLINE'
	            AND latitude BETWEEN $1 - ($3 / 111.0) AND $1 + ($3 / 111.0)
	            AND longitude BETWEEN $2 - ($3 / (111.0 * cos(radians($1)))) AND $2 + ($3 / (111.0 * cos(radians($1))))
	          ORDER BY (point(longitude, latitude) <@> point($2, $1)) ASC
	          LIMIT 50`
	rows, err := r.db.QueryContext(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStations(rows)
}

func (r *stationRepository) AdjustAvailableSlots(ctx context.Context, id int32, delta int32) error {
	query := `UPDATE stations
	          SET available_slots = available_slots + $1
	          WHERE id = $2 AND available_slots + $1 BETWEEN 0 AND total_slots`
	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("station %d slot adjustment by %d out of range", id, delta)
	}
	return nil
}

func scanStations(rows *sql.Rows) ([]domain.Station, error) {
	var stations []domain.Station
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &st.Latitude, &st.Longitude, &st.TotalSlots, &st.AvailableSlots, &st.Status); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// TripRepository 出行计划仓库
type TripRepository struct {
	db *DB
}

// NewTripRepository 创建出行仓库
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateTrip 新增出行
func (r *TripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (vehicle_id, name, start_date, end_date, estimated_miles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		trip.VehicleID,
		trip.Name,
		trip.StartDate,
		trip.EndDate,
		trip.EstimatedMiles,
		now,
	).Scan(&trip.ID)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}

	trip.CreatedAt = now
	return nil
}

// ListTrips 获取车辆出行列表（按开始日期升序）
func (r *TripRepository) ListTrips(ctx context.Context, vehicleID string) ([]models.Trip, error) {
	query := `
		SELECT id, vehicle_id, name, start_date, end_date, estimated_miles, created_at
		FROM trips WHERE vehicle_id = $1 ORDER BY start_date, id
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		err := rows.Scan(
			&trip.ID,
			&trip.VehicleID,
			&trip.Name,
			&trip.StartDate,
			&trip.EndDate,
			&trip.EstimatedMiles,
			&trip.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// DeleteTrip 删除车辆的一次出行，不属于该车辆时返回 ErrNotFound
func (r *TripRepository) DeleteTrip(ctx context.Context, vehicleID string, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND vehicle_id = $2`, id, vehicleID)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// ReadingRepository 里程读数仓库
type ReadingRepository struct {
	db *DB
}

// NewReadingRepository 创建读数仓库
func NewReadingRepository(db *DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// CreateReading 新增读数
func (r *ReadingRepository) CreateReading(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO readings (vehicle_id, date, miles, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		reading.VehicleID,
		reading.Date,
		reading.Miles,
		reading.Note,
		now,
	).Scan(&reading.ID)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}

	reading.CreatedAt = now
	return nil
}

// ListReadings 获取车辆全部读数（按日期升序）
func (r *ReadingRepository) ListReadings(ctx context.Context, vehicleID string) ([]models.Reading, error) {
	query := `
		SELECT id, vehicle_id, date, miles, note, created_at
		FROM readings WHERE vehicle_id = $1 ORDER BY date, id
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		err := rows.Scan(
			&reading.ID,
			&reading.VehicleID,
			&reading.Date,
			&reading.Miles,
			&reading.Note,
			&reading.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

// DeleteReading 删除车辆的一条读数，不属于该车辆时返回 ErrNotFound
func (r *ReadingRepository) DeleteReading(ctx context.Context, vehicleID string, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM readings WHERE id = $1 AND vehicle_id = $2`, id, vehicleID)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

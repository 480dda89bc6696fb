package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/leasemeter/internal/models"
)

// VehicleRepository 车辆配置仓库
type VehicleRepository struct {
	db *DB
}

// NewVehicleRepository 创建车辆配置仓库
func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetVehicleConfig 获取车辆配置，不存在时返回 ErrNotFound
func (r *VehicleRepository) GetVehicleConfig(ctx context.Context, vehicleID string) (*models.VehicleConfig, error) {
	query := `
		SELECT vehicle_id, lease_start, lease_end, annual_allowance_miles, mpg, overage_rate_per_mile, fuel_station_id, updated_at
		FROM vehicle_configs WHERE vehicle_id = $1
	`
	cfg := &models.VehicleConfig{}
	err := r.db.Pool.QueryRow(ctx, query, vehicleID).Scan(
		&cfg.VehicleID,
		&cfg.LeaseStart,
		&cfg.LeaseEnd,
		&cfg.AnnualAllowanceMiles,
		&cfg.MPG,
		&cfg.OverageRatePerMile,
		&cfg.FuelStationID,
		&cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle config: %w", err)
	}
	return cfg, nil
}

// UpsertVehicleConfig 创建或更新车辆配置
func (r *VehicleRepository) UpsertVehicleConfig(ctx context.Context, cfg *models.VehicleConfig) error {
	query := `
		INSERT INTO vehicle_configs (vehicle_id, lease_start, lease_end, annual_allowance_miles, mpg, overage_rate_per_mile, fuel_station_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vehicle_id) DO UPDATE SET
			lease_start = EXCLUDED.lease_start,
			lease_end = EXCLUDED.lease_end,
			annual_allowance_miles = EXCLUDED.annual_allowance_miles,
			mpg = EXCLUDED.mpg,
			overage_rate_per_mile = EXCLUDED.overage_rate_per_mile,
			fuel_station_id = EXCLUDED.fuel_station_id,
			updated_at = EXCLUDED.updated_at
	`
	cfg.UpdatedAt = time.Now()
	_, err := r.db.Pool.Exec(ctx, query,
		cfg.VehicleID,
		cfg.LeaseStart,
		cfg.LeaseEnd,
		cfg.AnnualAllowanceMiles,
		cfg.MPG,
		cfg.OverageRatePerMile,
		cfg.FuelStationID,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert vehicle config: %w", err)
	}
	cfg.IsDefault = false
	return nil
}

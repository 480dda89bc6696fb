package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/leasemeter/internal/models"
)

// FuelPriceRepository 油价仓库
type FuelPriceRepository struct {
	db *DB
}

// NewFuelPriceRepository 创建油价仓库
func NewFuelPriceRepository(db *DB) *FuelPriceRepository {
	return &FuelPriceRepository{db: db}
}

// CreateFuelPrice 保存一次抓取结果
func (r *FuelPriceRepository) CreateFuelPrice(ctx context.Context, price *models.FuelPrice) error {
	query := `
		INSERT INTO fuel_prices (station_id, price, recorded_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query, price.StationID, price.Price, price.RecordedAt).Scan(&price.ID)
	if err != nil {
		return fmt.Errorf("insert fuel price: %w", err)
	}
	return nil
}

// ListFuelPrices 获取某加油站 since 之后的油价（按时间升序）
func (r *FuelPriceRepository) ListFuelPrices(ctx context.Context, stationID string, since time.Time) ([]models.FuelPrice, error) {
	query := `
		SELECT id, station_id, price, recorded_at
		FROM fuel_prices WHERE station_id = $1 AND recorded_at >= $2 ORDER BY recorded_at
	`
	rows, err := r.db.Pool.Query(ctx, query, stationID, since)
	if err != nil {
		return nil, fmt.Errorf("list fuel prices: %w", err)
	}
	defer rows.Close()

	var prices []models.FuelPrice
	for rows.Next() {
		var p models.FuelPrice
		if err := rows.Scan(&p.ID, &p.StationID, &p.Price, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan fuel price: %w", err)
		}
		prices = append(prices, p)
	}

	return prices, rows.Err()
}

// LatestFuelPrice 获取某加油站最新油价，没有记录时返回 ErrNotFound
func (r *FuelPriceRepository) LatestFuelPrice(ctx context.Context, stationID string) (*models.FuelPrice, error) {
	query := `
		SELECT id, station_id, price, recorded_at
		FROM fuel_prices WHERE station_id = $1 ORDER BY recorded_at DESC LIMIT 1
	`
	p := &models.FuelPrice{}
	err := r.db.Pool.QueryRow(ctx, query, stationID).Scan(&p.ID, &p.StationID, &p.Price, &p.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest fuel price: %w", err)
	}
	return p, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置（单用户仪表盘，连接数很小）
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateReadings,
		migrationCreateTrips,
		migrationCreateVehicleConfigs,
		migrationCreateFuelPrices,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateReadings = `
CREATE TABLE IF NOT EXISTS readings (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id VARCHAR(255) NOT NULL,
    date DATE NOT NULL,
    miles INT NOT NULL CHECK (miles >= 0),
    note TEXT,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_readings_vehicle_date ON readings(vehicle_id, date);
`

const migrationCreateTrips = `
CREATE TABLE IF NOT EXISTS trips (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    estimated_miles INT NOT NULL DEFAULT 0 CHECK (estimated_miles >= 0),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle_id ON trips(vehicle_id);
`

const migrationCreateVehicleConfigs = `
CREATE TABLE IF NOT EXISTS vehicle_configs (
    vehicle_id VARCHAR(255) PRIMARY KEY,
    lease_start DATE NOT NULL,
    lease_end DATE NOT NULL,
    annual_allowance_miles DOUBLE PRECISION NOT NULL CHECK (annual_allowance_miles > 0),
    mpg DOUBLE PRECISION NOT NULL DEFAULT 0,
    overage_rate_per_mile DOUBLE PRECISION,
    fuel_station_id VARCHAR(255) NOT NULL DEFAULT '',
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// 油价抓取记录（每站每天最多一条由服务层保证）
const migrationCreateFuelPrices = `
CREATE TABLE IF NOT EXISTS fuel_prices (
    id BIGSERIAL PRIMARY KEY,
    station_id VARCHAR(255) NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    recorded_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fuel_prices_station_recorded ON fuel_prices(station_id, recorded_at);
`

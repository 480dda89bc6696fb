package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/models"
)

var (
	// ErrNotConfigured 存储未配置或启动时不可用
	ErrNotConfigured = errors.New("store not configured")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
)

// Store 存储能力接口，启动时在 Postgres 实现与未配置桩之间选择一次
type Store interface {
	ListReadings(ctx context.Context, vehicleID string) ([]models.Reading, error)
	CreateReading(ctx context.Context, reading *models.Reading) error
	DeleteReading(ctx context.Context, vehicleID string, id int64) error

	ListTrips(ctx context.Context, vehicleID string) ([]models.Trip, error)
	CreateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, vehicleID string, id int64) error

	GetVehicleConfig(ctx context.Context, vehicleID string) (*models.VehicleConfig, error)
	UpsertVehicleConfig(ctx context.Context, cfg *models.VehicleConfig) error

	ListFuelPrices(ctx context.Context, stationID string, since time.Time) ([]models.FuelPrice, error)
	LatestFuelPrice(ctx context.Context, stationID string) (*models.FuelPrice, error)
	CreateFuelPrice(ctx context.Context, price *models.FuelPrice) error

	Configured() bool
	Close()
}

// Open 根据配置选择存储实现：未配置或连接/迁移失败时返回桩
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) Store {
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set, running with unconfigured store")
		return NewStubStore()
	}

	db, err := New(ctx, databaseURL)
	if err != nil {
		logger.Error("Failed to connect database, running with unconfigured store", zap.Error(err))
		return NewStubStore()
	}

	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to migrate database, running with unconfigured store", zap.Error(err))
		db.Close()
		return NewStubStore()
	}
	logger.Info("Database migrated successfully")

	return NewPostgresStore(db)
}

// PostgresStore 基于 pgx 的存储实现
type PostgresStore struct {
	*ReadingRepository
	*TripRepository
	*VehicleRepository
	*FuelPriceRepository
	db *DB
}

// NewPostgresStore 创建 Postgres 存储
func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{
		ReadingRepository:   NewReadingRepository(db),
		TripRepository:      NewTripRepository(db),
		VehicleRepository:   NewVehicleRepository(db),
		FuelPriceRepository: NewFuelPriceRepository(db),
		db:                  db,
	}
}

// Configured 已配置
func (s *PostgresStore) Configured() bool { return true }

// Close 关闭连接池
func (s *PostgresStore) Close() { s.db.Close() }

// StubStore 未配置时使用的惰性实现，所有操作直接返回 ErrNotConfigured，不做任何 I/O
type StubStore struct{}

// NewStubStore 创建桩
func NewStubStore() *StubStore { return &StubStore{} }

func (StubStore) ListReadings(context.Context, string) ([]models.Reading, error) {
	return nil, ErrNotConfigured
}

func (StubStore) CreateReading(context.Context, *models.Reading) error { return ErrNotConfigured }

func (StubStore) DeleteReading(context.Context, string, int64) error { return ErrNotConfigured }

func (StubStore) ListTrips(context.Context, string) ([]models.Trip, error) {
	return nil, ErrNotConfigured
}

func (StubStore) CreateTrip(context.Context, *models.Trip) error { return ErrNotConfigured }

func (StubStore) DeleteTrip(context.Context, string, int64) error { return ErrNotConfigured }

func (StubStore) GetVehicleConfig(context.Context, string) (*models.VehicleConfig, error) {
	return nil, ErrNotConfigured
}

func (StubStore) UpsertVehicleConfig(context.Context, *models.VehicleConfig) error {
	return ErrNotConfigured
}

func (StubStore) ListFuelPrices(context.Context, string, time.Time) ([]models.FuelPrice, error) {
	return nil, ErrNotConfigured
}

func (StubStore) LatestFuelPrice(context.Context, string) (*models.FuelPrice, error) {
	return nil, ErrNotConfigured
}

func (StubStore) CreateFuelPrice(context.Context, *models.FuelPrice) error { return ErrNotConfigured }

func (StubStore) Configured() bool { return false }

func (StubStore) Close() {}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*StubStore)(nil)
)

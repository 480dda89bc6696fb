package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/mileage"
	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/repository"
)

// 油价历史回看天数（覆盖最长的油费窗口）
const fuelHistoryDays = 90

// Dashboard 某辆车的完整仪表盘
type Dashboard struct {
	VehicleID       string                      `json:"vehicle_id"`
	GeneratedAt     time.Time                   `json:"generated_at"`
	StoreConfigured bool                        `json:"store_configured"`
	Config          models.VehicleConfig        `json:"config"`
	Readings        []models.Reading            `json:"readings"`
	Trips           []models.Trip               `json:"trips"`
	Aggregates      []models.DailyAggregate     `json:"aggregates"`
	Pace            *mileage.Pace               `json:"pace"`
	Allowance       mileage.Allowance           `json:"allowance"`
	Outlook         mileage.LeaseOutlook        `json:"outlook"`
	WeeklyTrend     []mileage.WeekBucket        `json:"weekly_trend"`
	Projection      mileage.WeeklyProjection    `json:"weekly_projection"`
	Horizons        []mileage.HorizonProjection `json:"horizons"`
	TripImpact      mileage.TripImpact          `json:"trip_impact"`
	Fuel            mileage.FuelEstimate        `json:"fuel"`
}

// DashboardService 汇总读数、出行、租约与油价并运行所有计算
type DashboardService struct {
	cfg    *config.Config
	store  repository.Store
	fuel   *FuelPriceService
	logger *zap.Logger
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(cfg *config.Config, store repository.Store, fuel *FuelPriceService, logger *zap.Logger) *DashboardService {
	return &DashboardService{cfg: cfg, store: store, fuel: fuel, logger: logger}
}

// VehicleConfig 获取车辆配置，没有记录或读取失败时使用默认配置
func (s *DashboardService) VehicleConfig(ctx context.Context, vehicleID string) models.VehicleConfig {
	stored, err := s.store.GetVehicleConfig(ctx, vehicleID)
	if err == nil {
		return *stored
	}
	if !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrNotConfigured) {
		s.logger.Warn("Failed to load vehicle config, using defaults",
			zap.String("vehicle_id", vehicleID), zap.Error(err))
	}
	return DefaultVehicleConfig(s.cfg, vehicleID)
}

// Load 计算仪表盘。存储错误只记录日志，对应集合为空，仪表盘总能渲染
func (s *DashboardService) Load(ctx context.Context, session Session) Dashboard {
	vehicleID := session.VehicleID
	if vehicleID == "" {
		vehicleID = s.cfg.DefaultVehicleID
	}
	now := session.Now
	if now.IsZero() {
		now = time.Now()
	}

	d := Dashboard{
		VehicleID:       vehicleID,
		GeneratedAt:     now,
		StoreConfigured: s.store.Configured(),
		Config:          s.VehicleConfig(ctx, vehicleID),
	}

	readings, err := s.store.ListReadings(ctx, vehicleID)
	if err != nil {
		s.logFetchError("readings", vehicleID, err)
		readings = nil
	}
	trips, err := s.store.ListTrips(ctx, vehicleID)
	if err != nil {
		s.logFetchError("trips", vehicleID, err)
		trips = nil
	}
	d.Readings = nonNil(readings)
	d.Trips = nonNil(trips)

	lease := d.Config.Lease()
	d.Aggregates = nonNil(mileage.Aggregate(d.Readings))
	d.Pace = mileage.CalculatePace(d.Aggregates, now)
	d.Allowance = mileage.ProjectAllowance(d.Aggregates, lease, now)
	d.Outlook = mileage.ProjectLeaseEnd(d.Allowance, lease, d.Pace, now)
	if d.Outlook.ProjectedOverageCost != nil {
		cost := roundMoney(*d.Outlook.ProjectedOverageCost)
		d.Outlook.ProjectedOverageCost = &cost
	}

	d.WeeklyTrend = nonNil(mileage.WeeklyTrend(d.Aggregates, d.Allowance.DailyAllowance))
	d.Projection = mileage.ProjectWeekly(d.WeeklyTrend, d.Allowance.DailyAllowance, now)
	d.Horizons = mileage.ProjectHorizons(d.Allowance, d.Pace)
	d.TripImpact = mileage.CalculateTripImpact(d.Trips, d.Allowance, now)

	var samples []models.FuelPrice
	if s.fuel != nil {
		since := mileage.Day(now).AddDate(0, 0, -fuelHistoryDays)
		samples = s.fuel.History(ctx, d.Config.FuelStationID, since, now)
	}
	d.Fuel = mileage.EstimateFuel(d.Aggregates, d.Config.MPG, samples, d.Pace, now)
	for i := range d.Fuel.Windows {
		d.Fuel.Windows[i].Spent = roundMoney(d.Fuel.Windows[i].Spent)
		d.Fuel.Windows[i].Forecast = roundMoney(d.Fuel.Windows[i].Forecast)
	}

	return d
}

func (s *DashboardService) logFetchError(what, vehicleID string, err error) {
	if errors.Is(err, repository.ErrNotConfigured) {
		s.logger.Debug("Store not configured", zap.String("collection", what))
		return
	}
	s.logger.Warn("Failed to fetch "+what,
		zap.String("vehicle_id", vehicleID), zap.Error(err))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

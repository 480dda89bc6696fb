package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/notify"
	"github.com/langchou/leasemeter/internal/repository"
	"github.com/langchou/leasemeter/internal/state"
	"github.com/langchou/leasemeter/pkg/ws"
)

// TierNotifier 超额提醒
type TierNotifier interface {
	SendTierAlert(alert notify.TierAlert) error
}

// ReadingInput 新增读数
type ReadingInput struct {
	Date  string  `json:"date"`
	Miles *int    `json:"miles"`
	Note  *string `json:"note"`
}

// TripInput 新增出行
type TripInput struct {
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	EstimatedMiles *int   `json:"estimated_miles"`
}

// SettingsInput 保存车辆配置
type SettingsInput struct {
	LeaseStart           string   `json:"lease_start"`
	LeaseEnd             string   `json:"lease_end"`
	AnnualAllowanceMiles float64  `json:"annual_allowance_miles"`
	MPG                  float64  `json:"mpg"`
	OverageRatePerMile   *float64 `json:"overage_rate_per_mile"`
	FuelStationID        string   `json:"fuel_station_id"`
}

// LeaseService 读数、出行与车辆配置的写操作。每次写入后重新计算仪表盘、更新提醒等级并推送
type LeaseService struct {
	store     repository.Store
	dashboard *DashboardService
	tracker   *state.Manager
	hub       Broadcaster
	notifier  TierNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaseService 创建服务，hub 与 notifier 可为 nil
func NewLeaseService(
	store repository.Store,
	dashboard *DashboardService,
	tracker *state.Manager,
	hub Broadcaster,
	notifier TierNotifier,
	logger *zap.Logger,
) *LeaseService {
	return &LeaseService{
		store:     store,
		dashboard: dashboard,
		tracker:   tracker,
		hub:       hub,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// StoreConfigured 存储是否真正可用（连接失败时回退为未配置）
func (s *LeaseService) StoreConfigured() bool {
	return s.store.Configured()
}

// AlertTiers 已观察到的各车辆提醒等级
func (s *LeaseService) AlertTiers() map[string]state.TierState {
	if s.tracker == nil {
		return map[string]state.TierState{}
	}
	return s.tracker.GetAllStates()
}

// Dashboard 加载仪表盘并记录当前提醒等级（首次加载只建立基线）
func (s *LeaseService) Dashboard(ctx context.Context, session Session) Dashboard {
	if session.Now.IsZero() {
		session.Now = s.now()
	}
	d := s.dashboard.Load(ctx, session)
	s.observe(d)
	return d
}

// ListReadings 获取读数
func (s *LeaseService) ListReadings(ctx context.Context, vehicleID string) ([]models.Reading, error) {
	readings, err := s.store.ListReadings(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return nonNil(readings), nil
}

// AddReading 校验并保存读数
func (s *LeaseService) AddReading(ctx context.Context, vehicleID string, in ReadingInput) (*models.Reading, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if in.Miles == nil {
		return nil, invalid("miles is required")
	}
	if *in.Miles < 0 {
		return nil, invalid("miles must not be negative")
	}

	var note *string
	if in.Note != nil && strings.TrimSpace(*in.Note) != "" {
		n := strings.TrimSpace(*in.Note)
		note = &n
	}

	reading := &models.Reading{
		VehicleID: vehicleID,
		Date:      date,
		Miles:     *in.Miles,
		Note:      note,
	}
	if err := s.store.CreateReading(ctx, reading); err != nil {
		return nil, err
	}

	s.logger.Info("Reading added",
		zap.String("vehicle_id", vehicleID),
		zap.String("date", in.Date),
		zap.Int("miles", reading.Miles))
	s.refresh(ctx, vehicleID)
	return reading, nil
}

// DeleteReading 删除读数
func (s *LeaseService) DeleteReading(ctx context.Context, vehicleID string, id int64) error {
	if err := s.store.DeleteReading(ctx, vehicleID, id); err != nil {
		return err
	}
	s.refresh(ctx, vehicleID)
	return nil
}

// ListTrips 获取出行
func (s *LeaseService) ListTrips(ctx context.Context, vehicleID string) ([]models.Trip, error) {
	trips, err := s.store.ListTrips(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return nonNil(trips), nil
}

// AddTrip 校验并保存出行
func (s *LeaseService) AddTrip(ctx context.Context, vehicleID string, in TripInput) (*models.Trip, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("end_date must not be before start_date")
	}
	if in.EstimatedMiles == nil {
		return nil, invalid("estimated_miles is required")
	}
	if *in.EstimatedMiles < 0 {
		return nil, invalid("estimated_miles must not be negative")
	}

	trip := &models.Trip{
		VehicleID:      vehicleID,
		Name:           name,
		StartDate:      start,
		EndDate:        end,
		EstimatedMiles: *in.EstimatedMiles,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("Trip added",
		zap.String("vehicle_id", vehicleID),
		zap.String("name", name),
		zap.Int("estimated_miles", trip.EstimatedMiles))
	s.refresh(ctx, vehicleID)
	return trip, nil
}

// DeleteTrip 删除出行
func (s *LeaseService) DeleteTrip(ctx context.Context, vehicleID string, id int64) error {
	if err := s.store.DeleteTrip(ctx, vehicleID, id); err != nil {
		return err
	}
	s.refresh(ctx, vehicleID)
	return nil
}

// Settings 获取车辆配置（可能是默认配置）
func (s *LeaseService) Settings(ctx context.Context, vehicleID string) models.VehicleConfig {
	return s.dashboard.VehicleConfig(ctx, vehicleID)
}

// SaveSettings 校验并保存车辆配置
func (s *LeaseService) SaveSettings(ctx context.Context, vehicleID string, in SettingsInput) (*models.VehicleConfig, error) {
	start, err := parseDate("lease_start", in.LeaseStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("lease_end", in.LeaseEnd)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, invalid("lease_end must be after lease_start")
	}
	if in.AnnualAllowanceMiles <= 0 {
		return nil, invalid("annual_allowance_miles must be positive")
	}
	if in.MPG < 0 {
		return nil, invalid("mpg must not be negative")
	}
	if in.OverageRatePerMile != nil && *in.OverageRatePerMile < 0 {
		return nil, invalid("overage_rate_per_mile must not be negative")
	}

	cfg := &models.VehicleConfig{
		VehicleID:            vehicleID,
		LeaseStart:           start,
		LeaseEnd:             end,
		AnnualAllowanceMiles: in.AnnualAllowanceMiles,
		MPG:                  in.MPG,
		OverageRatePerMile:   in.OverageRatePerMile,
		FuelStationID:        strings.TrimSpace(in.FuelStationID),
	}
	if err := s.store.UpsertVehicleConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle settings saved", zap.String("vehicle_id", vehicleID))
	s.refresh(ctx, vehicleID)
	return cfg, nil
}

// refresh 重新计算并推送仪表盘
func (s *LeaseService) refresh(ctx context.Context, vehicleID string) {
	d := s.dashboard.Load(ctx, Session{VehicleID: vehicleID, Now: s.now()})
	s.observe(d)
	if s.hub != nil {
		s.hub.BroadcastToVehicle(vehicleID, ws.MsgTypeDashboardUpdate, d)
	}
}

// observe 更新提醒等级；变化时推送，升级到超额时发邮件
func (s *LeaseService) observe(d Dashboard) {
	if s.tracker == nil {
		return
	}

	change, err := s.tracker.Observe(d.VehicleID, d.Allowance.AlertTier)
	if err != nil {
		s.logger.Warn("Failed to update alert tier", zap.String("vehicle_id", d.VehicleID), zap.Error(err))
		return
	}
	if change == nil {
		return
	}
	from, to := change.From, change.To

	if s.hub != nil {
		s.hub.BroadcastToVehicle(d.VehicleID, ws.MsgTypeAlertTierChange, map[string]interface{}{
			"from":      from,
			"to":        to,
			"allowance": d.Allowance,
		})
	}

	if s.notifier != nil && to == models.TierOverLimit && from.Severity() < to.Severity() {
		err := s.notifier.SendTierAlert(notify.TierAlert{
			VehicleID:       d.VehicleID,
			From:            from,
			To:              to,
			TotalMiles:      d.Allowance.TotalMilesDriven,
			AllowanceToDate: d.Allowance.AllowanceToDate,
			BalancePercent:  d.Allowance.BalancePercent,
		})
		if err != nil {
			s.logger.Warn("Failed to send tier alert", zap.String("vehicle_id", d.VehicleID), zap.Error(err))
		}
	}
}


package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/mileage"
	"github.com/langchou/leasemeter/internal/models"
)

var (
	// ErrValidation 输入校验失败，不会产生任何写入
	ErrValidation = errors.New("validation failed")
	// ErrNoPrice 既抓取失败也没有历史油价
	ErrNoPrice = errors.New("no fuel price available")
)

// Session 客户端会话配置：当前查看的车辆与计算所用的时间
type Session struct {
	VehicleID string
	Now       time.Time
}

// Broadcaster 推送仪表盘变化
type Broadcaster interface {
	BroadcastToVehicle(vehicleID, msgType string, data interface{})
}

// DefaultVehicleConfig 数据库中没有记录时使用的进程级默认配置
func DefaultVehicleConfig(cfg *config.Config, vehicleID string) models.VehicleConfig {
	var rate *float64
	if cfg.DefaultOverageRate > 0 {
		r := cfg.DefaultOverageRate
		rate = &r
	}
	return models.VehicleConfig{
		VehicleID:            vehicleID,
		LeaseStart:           mileage.Day(cfg.DefaultLeaseStart),
		LeaseEnd:             mileage.Day(cfg.DefaultLeaseEnd),
		AnnualAllowanceMiles: cfg.DefaultAnnualAllowance,
		MPG:                  cfg.DefaultMPG,
		OverageRatePerMile:   rate,
		FuelStationID:        cfg.DefaultFuelStationID,
		IsDefault:            true,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// parseDate 解析 YYYY-MM-DD
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalid("%s is required", field)
	}
	t, err := time.Parse(config.DateLayout, value)
	if err != nil {
		return time.Time{}, invalid("%s must be a date (YYYY-MM-DD)", field)
	}
	return t, nil
}

// roundMoney 金额保留两位小数
func roundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

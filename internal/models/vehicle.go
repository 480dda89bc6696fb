package models

import "time"

// LeaseConfig 租约参数
type LeaseConfig struct {
	Start              time.Time `json:"lease_start"`
	End                time.Time `json:"lease_end"`
	AnnualAllowance    float64   `json:"annual_allowance_miles"`
	OverageRatePerMile *float64  `json:"overage_rate_per_mile,omitempty"`
}

// VehicleConfig 车辆配置
type VehicleConfig struct {
	VehicleID            string    `json:"vehicle_id" db:"vehicle_id"`
	LeaseStart           time.Time `json:"lease_start" db:"lease_start"`
	LeaseEnd             time.Time `json:"lease_end" db:"lease_end"`
	AnnualAllowanceMiles float64   `json:"annual_allowance_miles" db:"annual_allowance_miles"`
	MPG                  float64   `json:"mpg" db:"mpg"`
	OverageRatePerMile   *float64  `json:"overage_rate_per_mile,omitempty" db:"overage_rate_per_mile"`
	FuelStationID        string    `json:"fuel_station_id,omitempty" db:"fuel_station_id"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
	// 是否来自进程默认配置（数据库中无记录）
	IsDefault bool `json:"is_default" db:"-"`
}

// Lease 提取租约参数
func (v *VehicleConfig) Lease() LeaseConfig {
	return LeaseConfig{
		Start:              v.LeaseStart,
		End:                v.LeaseEnd,
		AnnualAllowance:    v.AnnualAllowanceMiles,
		OverageRatePerMile: v.OverageRatePerMile,
	}
}

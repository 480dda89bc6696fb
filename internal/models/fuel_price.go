package models

import "time"

// FuelPrice 油价采样（每个加油站每天最多一条抓取记录）
type FuelPrice struct {
	ID         int64     `json:"id" db:"id"`
	StationID  string    `json:"station_id" db:"station_id"`
	Price      float64   `json:"price" db:"price"` // 每加仑价格
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

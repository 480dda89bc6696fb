package models

import "time"

// Reading 里程表读数
type Reading struct {
	ID        int64     `json:"id" db:"id"`
	VehicleID string    `json:"vehicle_id" db:"vehicle_id"`
	Date      time.Time `json:"date" db:"date"`   // 日历日，无时间部分
	Miles     int       `json:"miles" db:"miles"` // 累计里程
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DailyAggregate 每日汇总（由读数实时计算，不持久化）
type DailyAggregate struct {
	Date  time.Time `json:"date"`
	Miles int       `json:"miles"` // 当日最大读数
	Delta int       `json:"delta"` // 与前一日的差值，不小于 0
}

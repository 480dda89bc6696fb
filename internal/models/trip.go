package models

import "time"

// Trip 计划中的（或已发生的）出行
type Trip struct {
	ID             int64     `json:"id" db:"id"`
	VehicleID      string    `json:"vehicle_id" db:"vehicle_id"`
	Name           string    `json:"name" db:"name"`
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	EstimatedMiles int       `json:"estimated_miles" db:"estimated_miles"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

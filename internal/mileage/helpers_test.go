package mileage

import (
	"math"
	"testing"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

var testToday = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// daysAgo 相对 testToday 的日期
func daysAgo(n int) time.Time {
	return testToday.AddDate(0, 0, -n)
}

func agg(daysBack, miles int) models.DailyAggregate {
	return models.DailyAggregate{Date: daysAgo(daysBack), Miles: miles}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

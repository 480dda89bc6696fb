package mileage

import (
	"math"
	"sort"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

const (
	// 短期预测使用的最近周数
	regressionWeeks = 4
	// 短期预测的未来周数
	projectionWeeks = 4
)

// WeekBucket 一周的行驶里程
type WeekBucket struct {
	WeekStart time.Time `json:"week_start"`
	Miles     int       `json:"miles"`
	Allowance float64   `json:"allowance"`
}

// WeeklyProjection 基于最近几周线性回归的短期预测
type WeeklyProjection struct {
	WeeksUsed int          `json:"weeks_used"`
	Mean      float64      `json:"mean"`
	Slope     float64      `json:"slope"`
	Intercept float64      `json:"intercept"`
	Weeks     []WeekFigure `json:"weeks"`
}

// WeekFigure 预测周
type WeekFigure struct {
	WeekStart time.Time `json:"week_start"`
	Miles     float64   `json:"miles"`
	Allowance float64   `json:"allowance"`
}

// HorizonProjection 长期预测与额度对比
type HorizonProjection struct {
	Label              string  `json:"label"`
	Days               int     `json:"days"`
	ProjectedMiles     float64 `json:"projected_miles"`
	ProjectedAllowance float64 `json:"projected_allowance"`
}

// TripImpact 计划出行对余量的影响
type TripImpact struct {
	UpcomingTrips      int     `json:"upcoming_trips"`
	TripMiles          int     `json:"trip_miles"`
	Available          float64 `json:"available"`
	ProjectedAvailable float64 `json:"projected_available"`
}

var horizons = []struct {
	label string
	days  int
}{
	{"1m", 30},
	{"3m", 90},
	{"6m", 182},
	{"12m", 365},
}

// WeeklyTrend 把每日正差值归入后一天所在的周（周日开始），按周升序
func WeeklyTrend(aggs []models.DailyAggregate, dailyAllowance float64) []WeekBucket {
	weekMiles := make(map[time.Time]int)
	for i := 1; i < len(aggs); i++ {
		delta := aggs[i].Miles - aggs[i-1].Miles
		if delta <= 0 {
			continue
		}
		weekMiles[WeekStart(aggs[i].Date)] += delta
	}

	buckets := make([]WeekBucket, 0, len(weekMiles))
	for week, miles := range weekMiles {
		buckets = append(buckets, WeekBucket{
			WeekStart: week,
			Miles:     miles,
			Allowance: dailyAllowance * 7,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].WeekStart.Before(buckets[j].WeekStart) })
	return buckets
}

// ProjectWeekly 对最近至多 4 周做最小二乘拟合并外推未来 4 周（不小于 0）。
// 不足 2 周时按均值平推；没有任何周数据时从 today 所在周之后开始。
func ProjectWeekly(trend []WeekBucket, dailyAllowance float64, today time.Time) WeeklyProjection {
	recent := trend
	if len(recent) > regressionWeeks {
		recent = recent[len(recent)-regressionWeeks:]
	}

	proj := WeeklyProjection{WeeksUsed: len(recent)}
	ys := make([]float64, len(recent))
	for i, w := range recent {
		ys[i] = float64(w.Miles)
		proj.Mean += ys[i]
	}
	if len(recent) > 0 {
		proj.Mean /= float64(len(recent))
	}

	proj.Intercept = proj.Mean
	if len(recent) >= 2 {
		xs := make([]float64, len(recent))
		for i := range xs {
			xs[i] = float64(i)
		}
		proj.Slope, proj.Intercept = linearRegression(xs, ys)
	}

	next := WeekStart(today).AddDate(0, 0, 7)
	if len(recent) > 0 {
		next = recent[len(recent)-1].WeekStart.AddDate(0, 0, 7)
	}

	k := len(recent)
	proj.Weeks = make([]WeekFigure, projectionWeeks)
	for i := range proj.Weeks {
		y := proj.Mean
		if k >= 2 {
			y = proj.Intercept + proj.Slope*float64(k+i)
		}
		proj.Weeks[i] = WeekFigure{
			WeekStart: next.AddDate(0, 0, 7*i),
			Miles:     math.Max(0, y),
			Allowance: dailyAllowance * 7,
		}
	}
	return proj
}

// linearRegression 计算 y = slope*x + intercept 的闭式解
func linearRegression(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	denom := n*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-10 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// ProjectHorizons 按加权配速推算 1/3/6/12 个月后的里程与额度。
// 与 ProjectWeekly 是两种独立的预测方法，结果可能不一致。
func ProjectHorizons(a Allowance, pace *Pace) []HorizonProjection {
	var blended float64
	if pace != nil {
		blended = pace.Blended
	}

	out := make([]HorizonProjection, len(horizons))
	for i, h := range horizons {
		out[i] = HorizonProjection{
			Label:              h.label,
			Days:               h.days,
			ProjectedMiles:     float64(a.TotalMilesDriven) + blended*float64(h.days),
			ProjectedAllowance: a.DailyAllowance * float64(a.DaysIntoLease+h.days),
		}
	}
	return out
}

// CalculateTripImpact 统计结束日期不早于今天的出行里程，并从可用余量中扣除
func CalculateTripImpact(trips []models.Trip, a Allowance, today time.Time) TripImpact {
	impact := TripImpact{Available: a.Available}
	day := Day(today)
	for _, t := range trips {
		if Day(t.EndDate).Before(day) {
			continue
		}
		impact.UpcomingTrips++
		impact.TripMiles += t.EstimatedMiles
	}
	impact.ProjectedAvailable = impact.Available - float64(impact.TripMiles)
	return impact
}

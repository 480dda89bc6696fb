package mileage

import (
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// 油费统计窗口（天）
var fuelWindows = []int{7, 30, 90}

// FuelWindow 某个窗口的已花费与预测花费
type FuelWindow struct {
	Days         int     `json:"days"`
	Miles        int     `json:"miles"`
	AveragePrice float64 `json:"average_price"`
	Spent        float64 `json:"spent"`
	Forecast     float64 `json:"forecast"`
}

// FuelEstimate 油费估算
type FuelEstimate struct {
	MPG         float64      `json:"mpg"`
	LatestPrice float64      `json:"latest_price"`
	Windows     []FuelWindow `json:"windows"`
}

// MilesInWindow 最近 n 天内首尾汇总的里程差，不足 2 个点为 0
func MilesInWindow(aggs []models.DailyAggregate, today time.Time, n int) int {
	window := inWindow(aggs, today, n)
	if len(window) < 2 {
		return 0
	}
	return window[len(window)-1].Miles - window[0].Miles
}

// LatestPrice 按记录时间取最新油价，没有样本时为 0
func LatestPrice(samples []models.FuelPrice) float64 {
	var latest *models.FuelPrice
	for i := range samples {
		if latest == nil || samples[i].RecordedAt.After(latest.RecordedAt) {
			latest = &samples[i]
		}
	}
	if latest == nil {
		return 0
	}
	return latest.Price
}

// AveragePrice 最近 n 天内油价的均值，窗口内无样本时退回最新油价
func AveragePrice(samples []models.FuelPrice, now time.Time, n int) float64 {
	since := now.AddDate(0, 0, -n)
	var sum float64
	var count int
	for _, s := range samples {
		if s.RecordedAt.Before(since) {
			continue
		}
		sum += s.Price
		count++
	}
	if count == 0 {
		return LatestPrice(samples)
	}
	return sum / float64(count)
}

// EstimateFuel 计算 7/30/90 天的已花费油费与未来同等天数的预测油费
func EstimateFuel(aggs []models.DailyAggregate, mpg float64, samples []models.FuelPrice, pace *Pace, now time.Time) FuelEstimate {
	est := FuelEstimate{
		MPG:         mpg,
		LatestPrice: LatestPrice(samples),
		Windows:     make([]FuelWindow, len(fuelWindows)),
	}

	var blended float64
	if pace != nil {
		blended = pace.Blended
	}

	for i, n := range fuelWindows {
		w := FuelWindow{
			Days:         n,
			Miles:        MilesInWindow(aggs, now, n),
			AveragePrice: AveragePrice(samples, now, n),
		}
		if mpg > 0 {
			w.Spent = float64(w.Miles) / mpg * w.AveragePrice
			w.Forecast = blended * float64(n) / mpg * est.LatestPrice
		}
		est.Windows[i] = w
	}
	return est
}

// Window 按天数查找窗口
func (e FuelEstimate) Window(days int) (FuelWindow, bool) {
	for _, w := range e.Windows {
		if w.Days == days {
			return w, true
		}
	}
	return FuelWindow{}, false
}

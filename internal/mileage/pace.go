package mileage

import (
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// 配速窗口与权重
const (
	thirtyDayWindow = 30
	ninetyDayWindow = 90

	thirtyDayWeight = 0.5
	ninetyDayWeight = 0.3
	lifetimeWeight  = 0.2
)

// Pace 日均里程（英里/天）
type Pace struct {
	ThirtyDay         float64 `json:"thirty_day"`
	NinetyDay         float64 `json:"ninety_day"`
	Lifetime          float64 `json:"lifetime"`
	Blended           float64 `json:"blended"`
	ThirtyDayWeighted bool    `json:"thirty_day_weighted"` // 30 天窗口数据是否足够参与加权
	NinetyDayWeighted bool    `json:"ninety_day_weighted"`
}

// CalculatePace 计算 30 天、90 天、全程配速及加权配速。
// 少于 2 个汇总点时返回 nil。窗口内不足 2 个点时该窗口配速为 0、权重为 0，不回退到更短窗口。
func CalculatePace(aggs []models.DailyAggregate, today time.Time) *Pace {
	if len(aggs) < 2 {
		return nil
	}

	p := &Pace{}
	var weighted, weights float64

	if pace, ok := windowPace(aggs, today, thirtyDayWindow); ok {
		p.ThirtyDay = pace
		p.ThirtyDayWeighted = true
		weighted += pace * thirtyDayWeight
		weights += thirtyDayWeight
	}
	if pace, ok := windowPace(aggs, today, ninetyDayWindow); ok {
		p.NinetyDay = pace
		p.NinetyDayWeighted = true
		weighted += pace * ninetyDayWeight
		weights += ninetyDayWeight
	}

	p.Lifetime = spanPace(aggs[0], aggs[len(aggs)-1])
	weighted += p.Lifetime * lifetimeWeight
	weights += lifetimeWeight

	if weights == 0 {
		return nil
	}
	p.Blended = weighted / weights
	return p
}

func windowPace(aggs []models.DailyAggregate, today time.Time, n int) (float64, bool) {
	window := inWindow(aggs, today, n)
	if len(window) < 2 {
		return 0, false
	}
	return spanPace(window[0], window[len(window)-1]), true
}

// spanPace 两点之间的日均里程，同日时为 0
func spanPace(first, last models.DailyAggregate) float64 {
	days := DaysBetween(first.Date, last.Date)
	if days == 0 {
		return 0
	}
	return float64(last.Miles-first.Miles) / float64(days)
}

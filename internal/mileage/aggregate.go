package mileage

import (
	"sort"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// Aggregate 将同一天的多条读数合并为当日最大值，并计算与前一日的差值。
// 输出按日期升序，日期唯一，差值不小于 0。
func Aggregate(readings []models.Reading) []models.DailyAggregate {
	if len(readings) == 0 {
		return nil
	}

	dayMax := make(map[time.Time]int)
	for _, r := range readings {
		day := Day(r.Date)
		// 同日取最大值，避免较小的错误录入覆盖正确读数
		if cur, ok := dayMax[day]; !ok || r.Miles > cur {
			dayMax[day] = r.Miles
		}
	}

	days := make([]time.Time, 0, len(dayMax))
	for day := range dayMax {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	aggs := make([]models.DailyAggregate, len(days))
	for i, day := range days {
		aggs[i] = models.DailyAggregate{Date: day, Miles: dayMax[day]}
		if i > 0 {
			if delta := aggs[i].Miles - aggs[i-1].Miles; delta > 0 {
				aggs[i].Delta = delta
			}
		}
	}
	return aggs
}

// inWindow 过滤出 date >= today - n 天的汇总
func inWindow(aggs []models.DailyAggregate, today time.Time, n int) []models.DailyAggregate {
	start := windowStart(today, n)
	idx := sort.Search(len(aggs), func(i int) bool { return !aggs[i].Date.Before(start) })
	return aggs[idx:]
}

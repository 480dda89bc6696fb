// Package mileage 里程计算：读数汇总、配速、额度、趋势预测与油费估算。
// 所有函数均为纯函数，“今天”由调用方显式传入。
package mileage

import (
	"math"
	"time"
)

// Day 截断到 UTC 日历日
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween 从 a 到 b 的整日数（b 早于 a 时为负）
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// WeekStart 返回 t 当天或之前最近的周日
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// windowStart 回溯 n 天的起始日
func windowStart(today time.Time, n int) time.Time {
	return Day(today).AddDate(0, 0, -n)
}

// Package cli 终端输出的格式化与渲染
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/langchou/leasemeter/internal/config"
)

// FormatNumber 千分位
// 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatMiles 四舍五入到整英里
func FormatMiles(miles float64) string {
	return FormatNumber(int64(math.Round(miles))) + " mi"
}

// FormatSignedMiles 带符号的里程差
func FormatSignedMiles(miles float64) string {
	r := int64(math.Round(miles))
	if r > 0 {
		return "+" + FormatNumber(r) + " mi"
	}
	return FormatNumber(r) + " mi"
}

// FormatPace 英里/天
func FormatPace(pace float64) string {
	return fmt.Sprintf("%.1f mi/day", pace)
}

// FormatCost 美元金额
func FormatCost(cost float64) string {
	if cost >= 1000 {
		return "$" + FormatNumber(int64(math.Round(cost)))
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatPrice 每加仑油价
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.3f/gal", price)
}

// FormatPercent 0-1 的比例显示为百分比
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDate YYYY-MM-DD
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(config.DateLayout)
}

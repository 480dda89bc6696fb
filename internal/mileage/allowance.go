package mileage

import (
	"math"
	"time"

	"github.com/langchou/leasemeter/internal/models"
)

// DaysPerYear 含闰年的平均天数
const DaysPerYear = 365.25

// 提醒等级阈值（上边界包含在本档内）
const (
	slightlyOverThreshold = 0.05
	warningThreshold      = 0.10
)

// Allowance 额度对比结果
type Allowance struct {
	TotalMilesDriven int              `json:"total_miles_driven"`
	DailyAllowance   float64          `json:"daily_allowance"`
	DaysIntoLease    int              `json:"days_into_lease"`
	AllowanceToDate  float64          `json:"allowance_to_date"`
	Balance          float64          `json:"balance"`   // 正数表示超出
	Available        float64          `json:"available"` // 正数表示尚有余量
	BalancePercent   float64          `json:"balance_percent"`
	AlertTier        models.AlertTier `json:"alert_tier"`
}

// ProjectAllowance 计算截至 now 的应得额度并与实际里程对比
func ProjectAllowance(aggs []models.DailyAggregate, lease models.LeaseConfig, now time.Time) Allowance {
	a := Allowance{
		DailyAllowance: lease.AnnualAllowance / DaysPerYear,
		DaysIntoLease:  max(0, DaysBetween(lease.Start, now)),
	}
	// 没有读数时只保留租约本身的日额度与天数，其余为零
	if len(aggs) == 0 {
		a.AlertTier = models.TierOnTrack
		return a
	}

	a.AllowanceToDate = a.DailyAllowance * float64(a.DaysIntoLease)
	a.TotalMilesDriven = aggs[len(aggs)-1].Miles - aggs[0].Miles

	a.Balance = float64(a.TotalMilesDriven) - a.AllowanceToDate
	a.Available = a.AllowanceToDate - float64(a.TotalMilesDriven)
	if a.AllowanceToDate > 0 {
		a.BalancePercent = a.Balance / a.AllowanceToDate
	}
	a.AlertTier = ClassifyTier(a.BalancePercent)
	return a
}

// ClassifyTier 根据超出比例划分提醒等级
func ClassifyTier(balancePercent float64) models.AlertTier {
	switch {
	case balancePercent <= 0:
		return models.TierOnTrack
	case balancePercent <= slightlyOverThreshold:
		return models.TierSlightlyOver
	case balancePercent <= warningThreshold:
		return models.TierWarning
	default:
		return models.TierOverLimit
	}
}

// LeaseOutlook 租约到期时的预估
type LeaseOutlook struct {
	DaysRemaining         int      `json:"days_remaining"`
	TermAllowance         float64  `json:"term_allowance"`
	ProjectedMilesAtEnd   float64  `json:"projected_miles_at_end"`
	ProjectedOverageMiles float64  `json:"projected_overage_miles"`
	ProjectedOverageCost  *float64 `json:"projected_overage_cost,omitempty"`
}

// ProjectLeaseEnd 按加权配速推算到租约结束时的里程与超额费用
func ProjectLeaseEnd(a Allowance, lease models.LeaseConfig, pace *Pace, now time.Time) LeaseOutlook {
	o := LeaseOutlook{
		DaysRemaining: max(0, DaysBetween(now, lease.End)),
		TermAllowance: a.DailyAllowance * float64(max(0, DaysBetween(lease.Start, lease.End))),
	}

	var blended float64
	if pace != nil {
		blended = pace.Blended
	}
	o.ProjectedMilesAtEnd = float64(a.TotalMilesDriven) + blended*float64(o.DaysRemaining)
	o.ProjectedOverageMiles = math.Max(0, o.ProjectedMilesAtEnd-o.TermAllowance)

	if lease.OverageRatePerMile != nil {
		cost := o.ProjectedOverageMiles * *lease.OverageRatePerMile
		o.ProjectedOverageCost = &cost
	}
	return o
}

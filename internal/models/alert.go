package models

// AlertTier 超额提醒等级
type AlertTier string

const (
	TierOnTrack      AlertTier = "on-track"
	TierSlightlyOver AlertTier = "slightly-over"
	TierWarning      AlertTier = "warning"
	TierOverLimit    AlertTier = "over-limit"
)

// Severity 等级序号，用于判断升级/回落
func (t AlertTier) Severity() int {
	switch t {
	case TierSlightlyOver:
		return 1
	case TierWarning:
		return 2
	case TierOverLimit:
		return 3
	default:
		return 0
	}
}

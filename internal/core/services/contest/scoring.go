package contest

import (
	"time"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
)

// ScoringRule awards base points plus a bonus that decays by one point per
// minute after the contest start and never drops below zero.
type ScoringRule struct {
	BonusWindowMinutes int
	MaxBonus           int
}

func DefaultScoringRule() ScoringRule {
	return ScoringRule{BonusWindowMinutes: 50, MaxBonus: 50}
}

func NewScoringRule(cfg *config.ScoringConfig) ScoringRule {
	rule := DefaultScoringRule()
	if cfg == nil {
		return rule
	}
	if cfg.BonusWindowMinutes >= 0 {
		rule.BonusWindowMinutes = cfg.BonusWindowMinutes
	}
	if cfg.MaxBonus >= 0 {
		rule.MaxBonus = cfg.MaxBonus
	}
	return rule
}

func (r ScoringRule) TimeBonus(minutesTaken int) int {
	bonus := r.BonusWindowMinutes - minutesTaken
	if bonus < 0 {
		return 0
	}
	if bonus > r.MaxBonus {
		return r.MaxBonus
	}
	return bonus
}

func (r ScoringRule) Points(basePoints, minutesTaken int) int {
	return basePoints + r.TimeBonus(minutesTaken)
}

// MinutesSince is the whole minutes elapsed from start to at, floored at zero.
func MinutesSince(start, at time.Time) int {
	if at.Before(start) {
		return 0
	}
	return int(at.Sub(start) / time.Minute)
}

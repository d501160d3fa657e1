package contest

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
)

func TestTimeBonusBounds(t *testing.T) {
	is := is.New(t)
	rule := DefaultScoringRule()

	for minutes := 0; minutes <= 300; minutes++ {
		bonus := rule.TimeBonus(minutes)
		is.True(bonus >= 0 && bonus <= 50)
		is.True(rule.Points(100, minutes) >= 100)
	}
	is.Equal(rule.TimeBonus(0), 50)
	is.Equal(rule.TimeBonus(10), 40)
	is.Equal(rule.TimeBonus(50), 0)
	is.Equal(rule.TimeBonus(51), 0)
}

func TestTimeBonusCappedByMaxBonus(t *testing.T) {
	is := is.New(t)
	rule := NewScoringRule(&config.ScoringConfig{BonusWindowMinutes: 120, MaxBonus: 30})

	is.Equal(rule.TimeBonus(0), 30)
	is.Equal(rule.TimeBonus(100), 20)
	is.Equal(rule.TimeBonus(130), 0)
}

func TestMinutesSince(t *testing.T) {
	is := is.New(t)
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	is.Equal(MinutesSince(start, start.Add(10*time.Minute+59*time.Second)), 10)
	is.Equal(MinutesSince(start, start), 0)
	is.Equal(MinutesSince(start, start.Add(-time.Minute)), 0)
}

package config

type ScoringConfig struct {
	BonusWindowMinutes int
	MaxBonus           int
}

func NewScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		BonusWindowMinutes: getIntEnv("SCORING_BONUS_WINDOW_MIN", 50),
		MaxBonus:           getIntEnv("SCORING_MAX_BONUS", 50),
	}
}

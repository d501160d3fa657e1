package config

import "os"

type AppConfig struct {
	DebugMode      bool
	HttpPort       int
	StatusSyncCfg  *StatusSyncCfg
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	GGAuthConfig   *GGAuthConfig
	JudgeConfig    *JudgeConfig
	ScoringConfig  *ScoringConfig
	LogConfig      *LogConfig
	MetricsConfig  *MetricsConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HttpPort:       getIntEnv("HTTP_PORT", 8082),
		StatusSyncCfg:  NewStatusSyncCfg(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		GGAuthConfig:   NewGGAuthConfig(),
		JudgeConfig:    NewJudgeConfig(),
		ScoringConfig:  NewScoringConfig(),
		LogConfig:      NewLogConfig(),
		MetricsConfig:  NewMetricsConfig(),
	}
}

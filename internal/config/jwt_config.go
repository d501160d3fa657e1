package config

import (
	"os"
	"time"
)

type JwtConfig struct {
	Secret   string
	TokenTTL time.Duration
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret:   os.Getenv("JWT_SECRET"),
		TokenTTL: getSecondsEnv("JWT_TTL_SEC", time.Hour),
	}
}

package config

import "time"

type RedisConfig struct {
	DB       int
	Url      string
	Password string
	// LockTTL bounds how long a crashed holder can keep a contest locked.
	LockTTL time.Duration
	// LockWait is how long a request waits for a busy contest before giving up.
	LockWait time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:       getIntEnv("REDIS_DB", 0),
		Url:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		LockTTL:  getSecondsEnv("CONTEST_LOCK_TTL_SEC", 10*time.Second),
		LockWait: getSecondsEnv("CONTEST_LOCK_WAIT_SEC", 5*time.Second),
	}
}

package config

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),
	}
}

type MetricsConfig struct {
	Enabled bool
}

func NewMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: getEnv("METRICS_ENABLED", "false") == "true",
	}
}

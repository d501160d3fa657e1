package config

import "time"

type StatusSyncCfg struct {
	Interval  time.Duration
	BatchSize int
}

func NewStatusSyncCfg() *StatusSyncCfg {
	return &StatusSyncCfg{
		Interval:  getSecondsEnv("STATUS_SYNC_INTERVAL_SEC", 60*time.Second),
		BatchSize: getIntEnv("STATUS_SYNC_BATCH_SIZE", 100),
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// ReportConfig tunes bulk fetching and the report result cache.
type ReportConfig struct {
	BatchSize          int
	MaxFailures        int
	BatchDelay         time.Duration
	FetchTimeout       time.Duration
	CacheTTL           time.Duration
	CacheMaxEntries    int
	CachePurgeSchedule string
}

// LoadReportConfig reads report.* keys, falling back to defaults that suit
// a backend capping every range request at 1000 rows.
func LoadReportConfig() *ReportConfig {
	viper.SetDefault("report.batch_size", 1000)
	viper.SetDefault("report.max_failures", 10)
	viper.SetDefault("report.batch_delay", 100*time.Millisecond)
	viper.SetDefault("report.fetch_timeout", 5*time.Minute)
	viper.SetDefault("report.cache_ttl", 5*time.Minute)
	viper.SetDefault("report.cache_max_entries", 100)
	viper.SetDefault("report.cache_purge_schedule", "@every 1m")

	return &ReportConfig{
		BatchSize:          viper.GetInt("report.batch_size"),
		MaxFailures:        viper.GetInt("report.max_failures"),
		BatchDelay:         viper.GetDuration("report.batch_delay"),
		FetchTimeout:       viper.GetDuration("report.fetch_timeout"),
		CacheTTL:           viper.GetDuration("report.cache_ttl"),
		CacheMaxEntries:    viper.GetInt("report.cache_max_entries"),
		CachePurgeSchedule: viper.GetString("report.cache_purge_schedule"),
	}
}

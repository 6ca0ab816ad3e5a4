package config

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Loans
		OverdueSweep
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path        string
		Debug       bool // Log every statement gorm runs
		ForeignKeys bool // Reject borrowings referencing unknown users or books
	}
	Loans struct {
		Period        time.Duration // Zero leaves borrowings without a due date
		FineDailyRate decimal.Decimal
	}
	OverdueSweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 8 * * *" = daily at 08:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_debug", false)
	v.SetDefault("database_foreign_keys", true)

	// Loan defaults
	v.SetDefault("loan_period", "336h") // 14 days
	v.SetDefault("fine_daily_rate", DefaultFineDailyRate)

	// Overdue sweep defaults
	v.SetDefault("overdue_sweep_enabled", false)
	v.SetDefault("overdue_sweep_schedule", "0 8 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			Debug:       v.GetBool("DATABASE_DEBUG"),
			ForeignKeys: v.GetBool("DATABASE_FOREIGN_KEYS"),
		},
		Loans: Loans{
			Period:        v.GetDuration("LOAN_PERIOD"),
			FineDailyRate: parseRate(v.GetString("FINE_DAILY_RATE")),
		},
		OverdueSweep: OverdueSweep{
			Enabled:  v.GetBool("OVERDUE_SWEEP_ENABLED"),
			Schedule: v.GetString("OVERDUE_SWEEP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// parseRate falls back to the default rate for unparsable or negative values.
func parseRate(raw string) decimal.Decimal {
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		return decimal.RequireFromString(DefaultFineDailyRate)
	}
	return rate
}

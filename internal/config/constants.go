package config

const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./library.db"

	// DefaultFineDailyRate is charged per overdue day
	DefaultFineDailyRate = "0.5"
)

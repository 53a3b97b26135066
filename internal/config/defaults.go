package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:               "~/.config/daybook",
			SQLiteFile:         "daybook.db",
			FallbackDir:        "fallback",
			ReadTimeoutSeconds: 3,
		},
		Recurrence: RecurrenceConfig{
			HorizonDays: 30,
		},
		Logging: LoggingConfig{
			File:       "daybook.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

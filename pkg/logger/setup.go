package logger

// SetupLogger builds a logger from the CLI logging options.
func SetupLogger(level LogLevel, logJSON, logSource bool) Logger {
	return NewLogger(&Config{
		Level:      level,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}

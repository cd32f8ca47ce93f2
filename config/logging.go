package config

import (
	"os"

	"github.com/phuslu/log"
)

// SetupLogging replaces the default logger once at start-up. Release mode
// writes JSON lines; everything else gets the colored console writer.
func SetupLogging(cfg *Config) {
	logger := log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: "2006-01-02 15:04:05",
	}

	if cfg.Release() {
		logger.Writer = &log.IOWriter{Writer: os.Stdout}
	} else {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}

	log.DefaultLogger = logger
}

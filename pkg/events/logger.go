package events

import "github.com/samvad-hq/incidesk/internal/logger"

// Logger is the shared structured logging surface.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}

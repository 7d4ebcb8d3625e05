package join

import (
	"go.uber.org/zap"
)

// Warner receives the non-fatal diagnostics of an engine: unmatched rows,
// secondary underruns and projection conflicts.
type Warner interface {
	Warn(msg string) error
}

type logWarner struct {
	logger *zap.Logger
}

func (l *logWarner) Warn(msg string) error {
	l.logger.Warn(msg)
	return nil
}

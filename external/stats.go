package external

import (
	"time"

	"go.uber.org/zap"
)

// Timer receives timing metrics. Implementations must not block or fail the caller.
type Timer interface {
	Timing(stat string, d time.Duration, tags map[string]string)
}

var _ Timer = &LogTimer{}
var _ Timer = NopTimer{}

// LogTimer writes timings as debug entries to the structured logger
type LogTimer struct {
	Logger *zap.Logger
	Prefix string
}

// NewLogTimer returns a Timer backed by logger. A nil logger discards everything.
func NewLogTimer(logger *zap.Logger, prefix string) *LogTimer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTimer{
		Logger: logger,
		Prefix: prefix,
	}
}

func (t *LogTimer) Timing(stat string, d time.Duration, tags map[string]string) {
	fields := make([]zap.Field, 0, len(tags)+2)
	fields = append(fields, zap.String("Stat", t.Prefix+stat), zap.Duration("Duration", d))
	for k, v := range tags {
		fields = append(fields, zap.String(k, v))
	}
	t.Logger.Debug("Timing", fields...)
}

// NopTimer discards every timing
type NopTimer struct{}

func (NopTimer) Timing(string, time.Duration, map[string]string) {}

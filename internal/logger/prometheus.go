package logger

import (
	"github.com/maxaizer/jobmarket/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const untypedError = "unknown"

// errorCounterHook counts logged failures by error type and severity.
type errorCounterHook struct {
	levels []log.Level
}

func newErrorCounterHook() *errorCounterHook {
	return &errorCounterHook{levels: []log.Level{log.WarnLevel, log.ErrorLevel, log.FatalLevel, log.PanicLevel}}
}

func (h *errorCounterHook) Levels() []log.Level {
	return h.levels
}

func (h *errorCounterHook) Fire(entry *log.Entry) error {
	errorType, _ := entry.Data[ErrorTypeField].(string)
	if errorType == "" {
		if entry.Level == log.WarnLevel {
			// plain warnings are not failures
			return nil
		}
		errorType = untypedError
	}

	metrics.ErrorsCounter.WithLabelValues(errorType, entry.Level.String()).Inc()
	return nil
}

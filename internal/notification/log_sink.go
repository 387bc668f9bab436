package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/metrics"
)

// LogSink writes alerts to the application log. It is the default driver.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "notification").Logger()}
}

func (s *LogSink) Send(_ context.Context, contact string, reasons []string) error {
	msg := NewMessage(contact, reasons, time.Now())
	s.logger.Warn().
		Str("contact", msg.Contact).
		Strs("reasons", msg.Reasons).
		Msg(msg.Text)
	metrics.NotificationsSent.WithLabelValues("log").Inc()
	return nil
}

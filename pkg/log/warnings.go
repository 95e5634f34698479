package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// UseZerologWarnings routes library warnings (ConvergenceWarning,
// UndefinedMetricWarning, ...) to a zerolog logger writing to w.
// Warning types implementing zerolog.LogObjectMarshaler are embedded
// as structured objects; anything else falls back to the error message.
func UseZerologWarnings(w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.EmbedObject(obj).Msg("gradgo warning")
			return
		}
		event.Err(warning).Msg("gradgo warning")
	})

	return logger
}

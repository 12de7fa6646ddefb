package log

import (
	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// UseZerologWarnings routes library warnings (e.g. ConvergenceWarning) through
// the given zerolog logger as structured events. Warning types implementing
// zerolog.LogObjectMarshaler are embedded with their structured fields;
// anything else is logged with the plain error message.
func UseZerologWarnings(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj).Msg("mixgo warning")
			return
		}
		ev.Err(warning).Msg("mixgo warning")
	})
}

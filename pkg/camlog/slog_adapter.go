package camlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes driver call events to an slog.Logger.
// Useful for development when you want to see driver traffic in the
// console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Successful calls log at
// Debug level, failed calls at Warn.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.Int("camera_id", int(event.CameraID)),
		slog.String("op", event.Op.String()),
		slog.String("status", event.Status.String()),
		slog.Duration("duration", event.Duration),
	}

	switch {
	case event.Config != nil:
		attrs = append(attrs,
			slog.String("slot", event.Config.Slot.String()),
			slog.Uint64("raw", event.Config.Raw),
			slog.Bool("auto", event.Config.Auto),
		)
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("buffer_size", event.Frame.Size),
			slog.Int("timeout_ms", int(event.Frame.TimeoutMS)),
		)
	case event.Geometry != nil:
		attrs = append(attrs,
			slog.Int("x", int(event.Geometry.X)),
			slog.Int("y", int(event.Geometry.Y)),
			slog.Int("width", int(event.Geometry.Width)),
			slog.Int("height", int(event.Geometry.Height)),
		)
		if event.Geometry.Bin != 0 {
			attrs = append(attrs, slog.Int("bin", int(event.Geometry.Bin)))
		}
	}

	level := slog.LevelDebug
	if !event.Status.IsOK() {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, "driver call", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

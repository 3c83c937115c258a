package pilot_capture

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors capture events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch {
	case event.Request != nil:
		attrs = append(attrs,
			slog.String("method", event.Request.Method),
			slog.String("path", event.Request.Path),
			slog.Int("body_size", event.Request.BodySize),
		)
	case event.Response != nil:
		attrs = append(attrs,
			slog.Int("status", event.Response.Status),
			slog.Int("body_size", event.Response.BodySize),
			slog.Bool("head_only", event.Response.HeadOnly),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "capture", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)

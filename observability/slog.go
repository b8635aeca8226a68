package observability

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// SlogObserver logs events through a slog.Logger. The event type is the
// message, Source and Data become attributes, and Data keys are emitted in
// sorted order so log lines are stable.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver falls back to slog.Default when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("source", event.Source))
	for _, k := range slices.Sorted(maps.Keys(event.Data)) {
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}

package render

import "log/slog"

// Options holds the settings shared by the family renderers.
type Options struct {
	// Logger receives the missing-surface warning. Nil falls back to the
	// package logger in pkg/logging.
	Logger *slog.Logger
}

// Option configures renderer Options.
type Option func(*Options)

// WithLogger routes renderer diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Apply folds options into a fresh Options value.
func Apply(options ...Option) Options {
	var out Options
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&out)
	}
	return out
}

package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func New(level, service string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, service)
}

func NewWithWriter(w io.Writer, level, service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	l := zerolog.New(w).Level(lvl).With().Timestamp()
	if service != "" {
		l = l.Str("service", service)
	}
	return l.Logger()
}

func IntoContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext never returns nil; without a logger in ctx it yields a disabled one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Handler derives a per-handler logger from the request logger.
func Handler(ctx context.Context, name string) zerolog.Logger {
	return FromContext(ctx).With().Str("handler", name).Logger()
}

package utils

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

func WithRunID(ctx context.Context) context.Context {
	if RunID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, uuid.NewString())
}

func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// agrega run_id a cada registro, como el request id del middleware
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(runIDHandler{Handler: h})
}

type runIDHandler struct{ slog.Handler }

func (h runIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunID(ctx); id != "" {
		r.AddAttrs(slog.String("run_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return runIDHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h runIDHandler) WithGroup(name string) slog.Handler {
	return runIDHandler{Handler: h.Handler.WithGroup(name)}
}

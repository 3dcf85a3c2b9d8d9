package logging

import (
	"io"
	"log/slog"
	"math"
	"os"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Dispatch groups the addressing of one outbound notification call.
func Dispatch(kind, taskId, subscriberId string) slog.Attr {
	return slog.Attr{
		Key: "dispatch",
		Value: slog.GroupValue(
			slog.String("kind", kind),
			slog.String("task_id", taskId),
			slog.String("subscriber_id", subscriberId),
		),
	}
}

func SetupLogger(env string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case envDev:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case envProd:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

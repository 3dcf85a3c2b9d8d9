package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		requestID := requestIDFromMetadata(ctx)

		log := logger.With(
			slog.String("method", info.FullMethod),
			slog.String("request_id", requestID),
		)

		ctx = contextkeys.WithLogger(ctx, log)
		ctx = contextkeys.WithRequestID(ctx, requestID)

		log.Info("request started")

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		statusCode := status.Code(err)

		attributes := []any{
			slog.Duration("duration", duration),
			slog.String("status", statusCode.String()),
		}

		if err != nil {
			attributes = append(attributes, slog.String("error", err.Error()))
			log.Error("request failed", attributes...)
		} else {
			log.Info("request completed", attributes...)
		}

		return resp, err
	}
}

// requestIDFromMetadata keeps an id forwarded by the gateway, otherwise
// generates a new one.
func requestIDFromMetadata(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDHeader); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

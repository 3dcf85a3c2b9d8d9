package interceptors

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/auth"
	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type TokenVerifier interface {
	Verify(token string) (models.Claims, error)
}

var publicMethods = map[string]bool{
	tasksapi.TasksService_Login_FullMethodName: true,
	grpc_health_v1.Health_Check_FullMethodName: true,
}

func AuthUnaryInterceptor(verifier TokenVerifier, log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		log := contextkeys.GetLogger(ctx).With(slog.String("interceptor", "auth"))

		log.Debug("begin")
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			log.Warn("context error")
			return nil, status.Error(codes.Unauthenticated, "missing data")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			log.Warn("auth headers empty")
			return nil, status.Error(codes.Unauthenticated, "access token required")
		}

		authHeader := authHeaders[0]
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Warn("invalid authorization format")
			return nil, status.Error(codes.Unauthenticated, "invalid authorization format, expected 'Bearer <token>'")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			log.Warn("missing token after bearer prefix")
			return nil, status.Error(codes.Unauthenticated, "missing token after 'Bearer '")
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Warn("validate token error", logging.Err(err))
			return nil, status.Error(codes.Unauthenticated, tokenErrorMessage(err))
		}

		log.Debug("token is ok",
			slog.String("user_id", claims.PrincipalId),
			slog.String("role", string(claims.Role)),
		)

		ctx = contextkeys.WithTokenClaims(ctx, claims)

		log = contextkeys.GetLogger(ctx).With(slog.String("user_id", claims.PrincipalId))
		ctx = contextkeys.WithLogger(ctx, log)

		return handler(ctx, req)
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "token expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "token signature is invalid"
	case errors.Is(err, auth.ErrMalformed):
		return "token malformed"
	}
	return "invalid token"
}

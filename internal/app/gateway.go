package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	pb "github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/gateway"
	"github.com/Novip1906/tasks-notify/internal/middleware"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GatewayServer struct {
	cfg     *config.GatewayConfig
	log     *slog.Logger
	conn    *grpc.ClientConn
	limiter *middleware.RateLimiter
	srv     *http.Server
}

func NewGatewayServer(ctx context.Context, cfg *config.GatewayConfig, log *slog.Logger) (*GatewayServer, error) {
	conn, err := grpc.NewClient(cfg.TasksAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial tasks api: %w", err)
	}

	s := &GatewayServer{cfg: cfg, log: log, conn: conn}

	middlewares := []func(http.Handler) http.Handler{middleware.LoggingMiddleware(log)}
	if !cfg.RateLimiter.Disabled {
		limiter, err := middleware.NewRedisRateLimiter(ctx, log, cfg.Redis, cfg.RateLimiter)
		if err != nil {
			conn.Close()
			return nil, err
		}
		s.limiter = limiter
		middlewares = append(middlewares, limiter.Middleware(log))
	}

	handler := gateway.NewHandler(pb.NewTasksServiceClient(conn), healthpb.NewHealthClient(conn), cfg.RequestTimeout, log)

	s.srv = &http.Server{
		Addr:              cfg.Address,
		Handler:           handler.Router(middlewares...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *GatewayServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("starting server", slog.String("address", s.cfg.Address))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	s.close()
	return err
}

func (s *GatewayServer) close() {
	if s.limiter != nil {
		if err := s.limiter.Close(); err != nil {
			s.log.Error("redis close error", logging.Err(err))
		}
	}
	if err := s.conn.Close(); err != nil {
		s.log.Error("grpc client close error", logging.Err(err))
	}
}

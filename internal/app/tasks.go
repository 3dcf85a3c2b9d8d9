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
	"github.com/Novip1906/tasks-notify/internal/auth"
	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/interceptors"
	"github.com/Novip1906/tasks-notify/internal/kafka"
	"github.com/Novip1906/tasks-notify/internal/notify"
	"github.com/Novip1906/tasks-notify/internal/novu"
	"github.com/Novip1906/tasks-notify/internal/registry"
	"github.com/Novip1906/tasks-notify/internal/service"
	"github.com/Novip1906/tasks-notify/internal/storage"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg        *config.Config
	log        *slog.Logger
	gs         *grpc.Server
	health     *health.Server
	metricsSrv *http.Server
	dispatcher *notify.Dispatcher
	closers    []func() error
}

type Option func(*serverOptions)

type serverOptions struct {
	provider notify.Provider
	inbox    notify.Inbox
}

// WithProvider replaces the configured notification provider.
func WithProvider(provider notify.Provider, inbox notify.Inbox) Option {
	return func(o *serverOptions) {
		o.provider = provider
		o.inbox = inbox
	}
}

func NewServer(cfg *config.Config, log *slog.Logger, opts ...Option) (*Server, error) {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	reg, err := registry.New(registry.DefaultSeed(), cfg.Auth.HashCost)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))

	db, err := storage.NewMemoryStorage(storage.SeedTasks(reg.Guests(), cfg.Seed.TasksPerGuest, time.Now()), reg)
	if err != nil {
		return nil, fmt.Errorf("seed tasks: %w", err)
	}

	s := &Server{cfg: cfg, log: log}

	provider, inbox := o.provider, o.inbox
	if provider == nil {
		provider, inbox, err = s.newProvider()
		if err != nil {
			return nil, err
		}
	}

	s.dispatcher = notify.NewDispatcher(provider, reg.Admin(), log,
		notify.WithWorkflow(cfg.Notifications.WorkflowId),
		notify.WithTimeout(cfg.Notifications.Timeout),
	)

	tasksService := service.NewTasksService(log, reg, tokens, db, s.dispatcher, inbox)

	s.gs = grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptors.LoggingInterceptor(log),
		interceptors.MetricsInterceptor(),
		interceptors.AuthUnaryInterceptor(tokens, log),
	))
	pb.RegisterTasksServiceServer(s.gs, tasksService)

	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.gs, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	notifications := healthpb.HealthCheckResponse_SERVING
	if cfg.Notifications.Provider == config.ProviderLog {
		notifications = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(pb.NotificationsHealthService, notifications)

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		s.metricsSrv = &http.Server{Addr: cfg.MetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	return s, nil
}

func (s *Server) newProvider() (notify.Provider, notify.Inbox, error) {
	switch s.cfg.Notifications.Provider {
	case config.ProviderKafka:
		producer := kafka.NewNotificationProducer(&s.cfg.Kafka)
		s.closers = append(s.closers, producer.Close)
		return producer, nil, nil
	case config.ProviderNovu:
		client, err := novu.New(s.cfg.Novu.BackendURL, s.cfg.Novu.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("novu client: %w", err)
		}
		return client, client, nil
	case config.ProviderLog:
		return notify.NewLogProvider(s.log), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown notifications provider %q", config.ErrInvalidConfig, s.cfg.Notifications.Provider)
	}
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.TasksAddress)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve blocks until ctx is done or a server fails, then stops both
// servers and waits for in-flight notification calls.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("grpc server listening", slog.String("address", ln.Addr().String()))
		return s.gs.Serve(ln)
	})

	if s.metricsSrv != nil {
		g.Go(func() error {
			s.log.Info("metrics server listening", slog.String("address", s.metricsSrv.Addr))
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		s.health.Shutdown()
		s.gs.GracefulStop()

		if s.metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.metricsSrv.Shutdown(shutdownCtx); err != nil {
				s.log.Error("metrics server shutdown error", logging.Err(err))
			}
		}
		return nil
	})

	err := g.Wait()
	s.dispatcher.Wait()
	s.close()
	return err
}

func (s *Server) close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.log.Error("close error", logging.Err(err))
		}
	}
}

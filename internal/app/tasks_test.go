package app

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	pb "github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type trigger struct {
	workflowId string
	to         models.Target
	payload    models.CompletionPayload
}

type recordingProvider struct {
	mu          sync.Mutex
	triggers    []trigger
	subscribers []string
}

func (p *recordingProvider) Trigger(ctx context.Context, workflowId string, to models.Target, payload models.CompletionPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers = append(p.triggers, trigger{workflowId: workflowId, to: to, payload: payload})
	return nil
}

func (p *recordingProvider) UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, subscriberId)
	return nil
}

func (p *recordingProvider) snapshot() ([]trigger, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]trigger(nil), p.triggers...), append([]string(nil), p.subscribers...)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:  "dev",
		Auth: config.Auth{JWTSecret: "e2e-secret", TokenTTL: time.Hour, HashCost: bcrypt.MinCost},
		Seed: config.Seed{TasksPerGuest: 10},
		Notifications: config.Notifications{
			Provider:   config.ProviderLog,
			WorkflowId: "task-completed-notification",
			Timeout:    time.Second,
		},
	}
}

type harness struct {
	client   pb.TasksServiceClient
	health   healthpb.HealthClient
	provider *recordingProvider
	stop     func() error
}

func startServer(t *testing.T) *harness {
	t.Helper()

	provider := &recordingProvider{}
	srv, err := NewServer(testConfig(), logging.Discard(), WithProvider(provider, nil))
	require.NoError(t, err)

	ln := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ln.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	h := &harness{
		client:   pb.NewTasksServiceClient(conn),
		health:   healthpb.NewHealthClient(conn),
		provider: provider,
	}
	h.stop = func() error {
		conn.Close()
		cancel()
		return <-done
	}
	t.Cleanup(func() {
		if h.stop != nil {
			_ = h.stop()
		}
	})
	return h
}

func (h *harness) login(t *testing.T, username, password string) context.Context {
	t.Helper()
	resp, err := h.client.Login(context.Background(), &pb.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+resp.Token)
}

func TestEndToEndCompletion(t *testing.T) {
	h := startServer(t)
	guest := h.login(t, "user1", "user123")

	list, err := h.client.ListTasks(guest, &pb.ListTasksRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 10)

	resp, err := h.client.UpdateTaskStatus(guest, &pb.UpdateTaskStatusRequest{TaskId: "user-001-task-1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Task.Status)
	assert.True(t, resp.Notified)

	again, err := h.client.UpdateTaskStatus(guest, &pb.UpdateTaskStatusRequest{TaskId: "user-001-task-1", Status: "completed"})
	require.NoError(t, err)
	assert.False(t, again.Notified)

	require.NoError(t, h.stop())
	h.stop = nil

	triggers, subscribers := h.provider.snapshot()
	require.Len(t, triggers, 1)
	assert.Equal(t, "task-completed-notification", triggers[0].workflowId)
	assert.Equal(t, models.Target{SubscriberId: "admin-001", Email: "admin@example.com"}, triggers[0].to)
	assert.Equal(t, "user1 has completed task: Task 1", triggers[0].payload.Message)
	assert.Equal(t, []string{"user-001"}, subscribers)
}

func TestEndToEndAuthorization(t *testing.T) {
	h := startServer(t)

	_, err := h.client.ListTasks(context.Background(), &pb.ListTasksRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope")
	_, err = h.client.ListTasks(bad, &pb.ListTasksRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.client.Login(context.Background(), &pb.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	admin := h.login(t, "admin", "admin123")

	all, err := h.client.ListTasks(admin, &pb.ListTasksRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Tasks, 30)

	_, err = h.client.UpdateTaskStatus(admin, &pb.UpdateTaskStatusRequest{TaskId: "user-002-task-1", Status: "completed"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	users, err := h.client.ListPrincipals(admin, &pb.ListPrincipalsRequest{})
	require.NoError(t, err)
	assert.Len(t, users.Users, 4)

	guest := h.login(t, "user2", "user123")
	_, err = h.client.ListPrincipals(guest, &pb.ListPrincipalsRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.client.ListNotifications(guest, &pb.ListNotificationsRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestEndToEndHealth(t *testing.T) {
	h := startServer(t)

	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: pb.NotificationsHealthService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

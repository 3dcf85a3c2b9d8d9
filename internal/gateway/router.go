// Package gateway is the HTTP/JSON edge of the tasks API.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	pb "github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

const maxBodyBytes = 1 << 20

// HealthChecker is the part of healthpb.HealthClient the gateway uses.
type HealthChecker interface {
	Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error)
}

type Handler struct {
	client  pb.TasksServiceClient
	health  HealthChecker
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewHandler(client pb.TasksServiceClient, health HealthChecker, timeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{client: client, health: health, timeout: timeout, now: time.Now, log: log}
}

// Router mounts the REST routes behind the given middlewares.
func (h *Handler) Router(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)

		r.Post("/auth/login", h.login)
		r.Get("/auth/me", h.me)

		r.Post("/novu/subscriber", h.syncSubscriber)
		r.Get("/novu/notifications", h.listNotifications)
		r.Post("/novu/notifications/{messageId}/read", h.markNotificationRead)

		r.Get("/tasks", h.listTasks)
		r.Get("/tasks/{taskId}", h.getTask)
		r.Patch("/tasks/{taskId}/status", h.updateTaskStatus)

		r.Get("/users", h.listUsers)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// rpcContext carries the caller's credentials and request id to the tasks API.
func (h *Handler) rpcContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)

	var pairs []string
	if auth := r.Header.Get("Authorization"); auth != "" {
		pairs = append(pairs, "authorization", auth)
	}
	if id, ok := contextkeys.GetRequestID(r.Context()); ok {
		pairs = append(pairs, "x-request-id", id)
	}
	if len(pairs) > 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
	}
	return ctx, cancel
}

func (h *Handler) rpcFailed(w http.ResponseWriter, r *http.Request, method string, err error) {
	contextkeys.GetLogger(r.Context()).Warn("rpc failed",
		slog.String("rpc", method),
		logging.Err(err),
	)
	writeRPCError(w, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type healthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Tasks         string    `json:"tasks"`
	Notifications string    `json:"notifications"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Timestamp: h.now().UTC()}

	tasks, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		contextkeys.GetLogger(r.Context()).Warn("health check failed", logging.Err(err))
		resp.Status = "unavailable"
		resp.Tasks = healthpb.HealthCheckResponse_UNKNOWN.String()
		resp.Notifications = healthpb.HealthCheckResponse_UNKNOWN.String()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Tasks = tasks.GetStatus().String()
	if tasks.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		resp.Status = "unavailable"
	}

	resp.Notifications = healthpb.HealthCheckResponse_UNKNOWN.String()
	if n, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.NotificationsHealthService}); err == nil {
		resp.Notifications = n.GetStatus().String()
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req pb.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.Login(ctx, &req)
	if err != nil {
		h.rpcFailed(w, r, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.Me(ctx, &pb.MeRequest{})
	if err != nil {
		h.rpcFailed(w, r, "Me", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) syncSubscriber(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.SyncSubscriber(ctx, &pb.SyncSubscriberRequest{})
	if err != nil {
		h.rpcFailed(w, r, "SyncSubscriber", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	req := pb.ListNotificationsRequest{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.ListNotifications(ctx, &req)
	if err != nil {
		h.rpcFailed(w, r, "ListNotifications", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.MarkNotificationRead(ctx, &pb.MarkNotificationReadRequest{
		MessageId: chi.URLParam(r, "messageId"),
	})
	if err != nil {
		h.rpcFailed(w, r, "MarkNotificationRead", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.ListTasks(ctx, &pb.ListTasksRequest{})
	if err != nil {
		h.rpcFailed(w, r, "ListTasks", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.GetTask(ctx, &pb.GetTaskRequest{TaskId: chi.URLParam(r, "taskId")})
	if err != nil {
		h.rpcFailed(w, r, "GetTask", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateStatusBody struct {
	Status string `json:"status"`
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body updateStatusBody
	if !decodeBody(w, r, &body) {
		return
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{
		TaskId: chi.URLParam(r, "taskId"),
		Status: body.Status,
	})
	if err != nil {
		h.rpcFailed(w, r, "UpdateTaskStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.client.ListPrincipals(ctx, &pb.ListPrincipalsRequest{})
	if err != nil {
		h.rpcFailed(w, r, "ListPrincipals", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// queryInt returns 0 for a missing or malformed parameter.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	pb "github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/Novip1906/tasks-notify/internal/guard"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/internal/notify"
	"github.com/Novip1906/tasks-notify/internal/registry"
	"github.com/Novip1906/tasks-notify/internal/storage"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Registry interface {
	Authenticate(username, secret string) (models.Principal, error)
	List() []models.Principal
}

type TokenIssuer interface {
	Issue(p models.Principal) (string, error)
}

type TasksStorage interface {
	ListAll() []models.Task
	ListForOwner(ownerId string) []models.Task
	GetById(id string) (models.Task, error)
	UpdateStatus(id string, status models.Status, requesterId string) (models.Task, bool, error)
}

type Notifier interface {
	TaskCompleted(task models.Task, actor models.PublicPrincipal) <-chan notify.Result
	EnsureSubscriber(p models.PublicPrincipal) <-chan notify.Result
}

type TasksService struct {
	pb.UnimplementedTasksServiceServer
	log      *slog.Logger
	registry Registry
	tokens   TokenIssuer
	db       TasksStorage
	notifier Notifier
	inbox    notify.Inbox
}

// NewTasksService wires the boundary operations. inbox may be nil when the
// configured provider keeps no feed.
func NewTasksService(log *slog.Logger, registry Registry, tokens TokenIssuer, db TasksStorage, notifier Notifier, inbox notify.Inbox) *TasksService {
	return &TasksService{log: log, registry: registry, tokens: tokens, db: db, notifier: notifier, inbox: inbox}
}

func (s *TasksService) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	log := contextkeys.GetLogger(ctx).With(slog.String("username", req.GetUsername()))

	log.Debug("attempt")

	principal, err := s.registry.Authenticate(req.GetUsername(), req.GetPassword())
	if errors.Is(err, registry.ErrInvalidCredentials) {
		log.Warn("invalid credentials")
		return nil, status.Error(codes.Unauthenticated, ErrInvalidCredentialsMessage)
	}
	if err != nil {
		log.Error("registry error", logging.Err(err))
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		log.Error("token issue error", logging.Err(err))
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	// Session start; the upsert outcome is logged by the notifier.
	_ = s.notifier.EnsureSubscriber(principal.Public())

	log.Info("logged in", slog.String("user_id", principal.Id))

	return &pb.LoginResponse{Token: token, User: toPbPrincipal(principal.Public())}, nil
}

func (s *TasksService) Me(ctx context.Context, req *pb.MeRequest) (*pb.MeResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	return &pb.MeResponse{User: toPbPrincipal(tokenClaims.Public())}, nil
}

func (s *TasksService) ListTasks(ctx context.Context, req *pb.ListTasksRequest) (*pb.ListTasksResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	log := contextkeys.GetLogger(ctx)

	log.Debug("list tasks attempt")

	if err := guard.Authorize(tokenClaims, guard.OpListTasks, nil); err != nil {
		log.Warn("forbidden", logging.Err(err))
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}

	var tasks []models.Task
	if ownerId, all := guard.TaskScope(tokenClaims); all {
		tasks = s.db.ListAll()
	} else {
		tasks = s.db.ListForOwner(ownerId)
	}

	return &pb.ListTasksResponse{Tasks: toPbTasks(tasks)}, nil
}

func (s *TasksService) GetTask(ctx context.Context, req *pb.GetTaskRequest) (*pb.GetTaskResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	taskId := req.GetTaskId()

	log := contextkeys.GetLogger(ctx).With(slog.String("task_id", taskId))

	log.Debug("attempt")

	task, err := s.db.GetById(taskId)
	if errors.Is(err, storage.ErrTaskNotFound) {
		log.Warn("task not found")
		return nil, status.Error(codes.NotFound, ErrTaskNotFoundMessage)
	}
	if err != nil {
		log.Error("db error", logging.Err(err))
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	if err := guard.Authorize(tokenClaims, guard.OpGetTask, &task); err != nil {
		log.Warn("user may not view task", logging.Err(err))
		return nil, status.Error(codes.PermissionDenied, ErrNotTaskViewerMessage)
	}

	return &pb.GetTaskResponse{Task: toPbTask(task)}, nil
}

func (s *TasksService) UpdateTaskStatus(ctx context.Context, req *pb.UpdateTaskStatusRequest) (*pb.UpdateTaskStatusResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	taskId := req.GetTaskId()

	log := contextkeys.GetLogger(ctx).With(
		slog.String("task_id", taskId),
		slog.String("status", req.GetStatus()),
	)

	log.Debug("attempt")

	newStatus, err := models.ParseStatus(req.GetStatus())
	if err != nil {
		log.Warn("status invalid", logging.Err(err))
		return nil, status.Error(codes.InvalidArgument, ErrInvalidStatusMessage)
	}

	task, err := s.db.GetById(taskId)
	if errors.Is(err, storage.ErrTaskNotFound) {
		log.Warn("task not found")
		return nil, status.Error(codes.NotFound, ErrTaskNotFoundMessage)
	}
	if err != nil {
		log.Error("db error", logging.Err(err))
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	if err := guard.Authorize(tokenClaims, guard.OpUpdateStatus, &task); err != nil {
		log.Warn("user may not update task", logging.Err(err))
		return nil, status.Error(codes.PermissionDenied, ErrNotTaskOwnerMessage)
	}

	updated, completed, err := s.db.UpdateStatus(taskId, newStatus, tokenClaims.PrincipalId)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrTaskNotFound):
		log.Warn("task not found")
		return nil, status.Error(codes.NotFound, ErrTaskNotFoundMessage)
	case errors.Is(err, storage.ErrNotTaskOwner):
		log.Warn("user is not task owner", logging.Err(err))
		return nil, status.Error(codes.PermissionDenied, ErrNotTaskOwnerMessage)
	case errors.Is(err, storage.ErrInvalidStatus):
		log.Warn("status invalid", logging.Err(err))
		return nil, status.Error(codes.InvalidArgument, ErrInvalidStatusMessage)
	default:
		log.Error("db error", logging.Err(err))
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	log.Info("task status updated")

	message := taskUpdatedMessage
	if completed {
		// The dispatch outcome is logged by the notifier and never changes
		// this response.
		_ = s.notifier.TaskCompleted(updated, tokenClaims.Public())
		message = taskCompletedMessage
		log.Info("completion notification dispatched")
	}

	return &pb.UpdateTaskStatusResponse{
		Task:     toPbTask(updated),
		Notified: completed,
		Message:  message,
	}, nil
}

func (s *TasksService) ListPrincipals(ctx context.Context, req *pb.ListPrincipalsRequest) (*pb.ListPrincipalsResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	log := contextkeys.GetLogger(ctx)

	if err := guard.Authorize(tokenClaims, guard.OpListPrincipals, nil); err != nil {
		log.Warn("forbidden", logging.Err(err))
		return nil, status.Error(codes.PermissionDenied, ErrAdminRequiredMessage)
	}

	principals := s.registry.List()
	users := make([]pb.Principal, 0, len(principals))
	for _, p := range principals {
		users = append(users, toPbPrincipal(p.Public()))
	}

	return &pb.ListPrincipalsResponse{Users: users}, nil
}

func (s *TasksService) SyncSubscriber(ctx context.Context, req *pb.SyncSubscriberRequest) (*pb.SyncSubscriberResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}

	_ = s.notifier.EnsureSubscriber(tokenClaims.Public())

	return &pb.SyncSubscriberResponse{Message: subscriberSyncMessage}, nil
}

func (s *TasksService) ListNotifications(ctx context.Context, req *pb.ListNotificationsRequest) (*pb.ListNotificationsResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	log := contextkeys.GetLogger(ctx)

	if s.inbox == nil {
		return nil, status.Error(codes.Unimplemented, ErrInboxUnsupportedMessage)
	}

	page, limit := req.GetPage(), req.GetLimit()
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	items, err := s.inbox.Feed(ctx, tokenClaims.SubscriberId, page, limit)
	if err != nil {
		log.Error("notification feed error", logging.Err(err))
		return nil, status.Error(codes.Unavailable, ErrInboxUnavailableMessage)
	}

	return &pb.ListNotificationsResponse{Notifications: toPbNotifications(items)}, nil
}

func (s *TasksService) MarkNotificationRead(ctx context.Context, req *pb.MarkNotificationReadRequest) (*pb.MarkNotificationReadResponse, error) {
	tokenClaims, ok := contextkeys.GetTokenClaims(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, ErrInternalMessage)
	}
	log := contextkeys.GetLogger(ctx).With(slog.String("message_id", req.GetMessageId()))

	if s.inbox == nil {
		return nil, status.Error(codes.Unimplemented, ErrInboxUnsupportedMessage)
	}
	if strings.TrimSpace(req.GetMessageId()) == "" {
		return nil, status.Error(codes.InvalidArgument, ErrMissingMessageIdMessage)
	}

	if err := s.inbox.MarkRead(ctx, tokenClaims.SubscriberId, req.GetMessageId()); err != nil {
		log.Error("mark notification read error", logging.Err(err))
		return nil, status.Error(codes.Unavailable, ErrInboxUnavailableMessage)
	}

	return &pb.MarkNotificationReadResponse{Message: notificationReadMessage}, nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pb "github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/auth"
	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/internal/notify"
	"github.com/Novip1906/tasks-notify/internal/registry"
	"github.com/Novip1906/tasks-notify/internal/storage"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type completion struct {
	task  models.Task
	actor models.PublicPrincipal
}

type recordingNotifier struct {
	mu          sync.Mutex
	completions []completion
	subscribers []models.PublicPrincipal
}

func (n *recordingNotifier) TaskCompleted(task models.Task, actor models.PublicPrincipal) <-chan notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completions = append(n.completions, completion{task: task, actor: actor})
	return done(notify.Result{Kind: notify.KindTrigger, TaskId: task.Id})
}

func (n *recordingNotifier) EnsureSubscriber(p models.PublicPrincipal) <-chan notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, p)
	return done(notify.Result{Kind: notify.KindSubscriber, SubscriberId: p.SubscriberId})
}

func (n *recordingNotifier) completionCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.completions)
}

func done(res notify.Result) <-chan notify.Result {
	ch := make(chan notify.Result, 1)
	ch <- res
	close(ch)
	return ch
}

type fakeInbox struct {
	items    []models.Notification
	err      error
	marked   []string
	gotLimit int
}

func (f *fakeInbox) Feed(ctx context.Context, subscriberId string, page, limit int) ([]models.Notification, error) {
	f.gotLimit = limit
	return f.items, f.err
}

func (f *fakeInbox) MarkRead(ctx context.Context, subscriberId, messageId string) error {
	f.marked = append(f.marked, subscriberId+"/"+messageId)
	return f.err
}

type fixture struct {
	svc      *TasksService
	reg      *registry.Registry
	db       *storage.MemoryStorage
	notifier *recordingNotifier
	tokens   *auth.Tokens
}

func newFixture(t *testing.T, inbox notify.Inbox) *fixture {
	t.Helper()

	reg, err := registry.New(registry.DefaultSeed(), bcrypt.MinCost)
	require.NoError(t, err)

	db, err := storage.NewMemoryStorage(storage.SeedTasks(reg.Guests(), 10, time.Now()), reg)
	require.NoError(t, err)

	tokens := auth.NewTokens("test-secret")
	notifier := &recordingNotifier{}

	return &fixture{
		svc:      NewTasksService(logging.Discard(), reg, tokens, db, notifier, inbox),
		reg:      reg,
		db:       db,
		notifier: notifier,
		tokens:   tokens,
	}
}

func (f *fixture) ctxFor(t *testing.T, id string) context.Context {
	t.Helper()
	p, err := f.reg.Get(id)
	require.NoError(t, err)

	token, err := f.tokens.Issue(p)
	require.NoError(t, err)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)

	return contextkeys.WithTokenClaims(context.Background(), claims)
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	require.Equal(t, code, st.Code(), st.Message())
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.Login(context.Background(), &pb.LoginRequest{Username: "user1", Password: "user123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, pb.Principal{
		Id:           "user-001",
		Username:     "user1",
		Role:         "guest",
		Email:        "user1@example.com",
		SubscriberId: "user-001",
	}, resp.User)

	claims, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.PrincipalId)

	require.Len(t, f.notifier.subscribers, 1)
	assert.Equal(t, "user-001", f.notifier.subscribers[0].SubscriberId)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Login(context.Background(), &pb.LoginRequest{Username: "user1", Password: "nope"})
	requireCode(t, err, codes.Unauthenticated)
	assert.Empty(t, f.notifier.subscribers)
}

func TestMe(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.Me(f.ctxFor(t, "user-002"), &pb.MeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "user2", resp.User.Username)
	assert.Equal(t, "guest", resp.User.Role)
}

func TestMethodsRequireClaims(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListTasks(context.Background(), &pb.ListTasksRequest{})
	requireCode(t, err, codes.Internal)
}

func TestListTasksScopedToGuest(t *testing.T) {
	f := newFixture(t, nil)

	for _, g := range f.reg.Guests() {
		resp, err := f.svc.ListTasks(f.ctxFor(t, g.Id), &pb.ListTasksRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Tasks, 10)
		for _, task := range resp.Tasks {
			assert.Equal(t, g.Id, task.UserId)
		}
	}
}

func TestListTasksAdminSeesUnion(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.ListTasks(f.ctxFor(t, "admin-001"), &pb.ListTasksRequest{})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, task := range resp.Tasks {
		assert.False(t, seen[task.Id], "duplicate %s", task.Id)
		seen[task.Id] = true
	}

	var expected int
	for _, g := range f.reg.Guests() {
		for _, task := range f.db.ListForOwner(g.Id) {
			assert.True(t, seen[task.Id], "missing %s", task.Id)
			expected++
		}
	}
	assert.Len(t, resp.Tasks, expected)
}

func TestGetTask(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.GetTask(f.ctxFor(t, "user-001"), &pb.GetTaskRequest{TaskId: "user-001-task-3"})
	require.NoError(t, err)
	assert.Equal(t, "Task 3", resp.Task.Title)

	_, err = f.svc.GetTask(f.ctxFor(t, "admin-001"), &pb.GetTaskRequest{TaskId: "user-001-task-3"})
	require.NoError(t, err)

	_, err = f.svc.GetTask(f.ctxFor(t, "user-002"), &pb.GetTaskRequest{TaskId: "user-001-task-3"})
	requireCode(t, err, codes.PermissionDenied)

	_, err = f.svc.GetTask(f.ctxFor(t, "user-001"), &pb.GetTaskRequest{TaskId: "nope"})
	requireCode(t, err, codes.NotFound)
}

func TestCompleteTaskScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := f.ctxFor(t, "user-001")

	resp, err := f.svc.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{TaskId: "user-001-task-1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Task.Status)
	require.NotNil(t, resp.Task.UpdatedAt)
	assert.True(t, resp.Notified)
	assert.Equal(t, taskCompletedMessage, resp.Message)

	require.Equal(t, 1, f.notifier.completionCount())
	payload := notify.BuildPayload(f.notifier.completions[0].task, f.notifier.completions[0].actor)
	assert.Equal(t, "Task 1", payload.TaskTitle)
	assert.Equal(t, "user-001", payload.UserId)
	assert.Contains(t, payload.Message, "user1")
	assert.Contains(t, payload.Message, "Task 1")

	again, err := f.svc.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{TaskId: "user-001-task-1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", again.Task.Status)
	assert.False(t, again.Notified)
	assert.Equal(t, taskUpdatedMessage, again.Message)
	assert.Equal(t, 1, f.notifier.completionCount())
}

func TestRecompletionDispatchesAgain(t *testing.T) {
	f := newFixture(t, nil)
	ctx := f.ctxFor(t, "user-002")
	const id = "user-002-task-4"

	for _, st := range []string{"completed", "completed", "pending", "completed"} {
		_, err := f.svc.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{TaskId: id, Status: st})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.notifier.completionCount())
}

func TestSelfLoopPendingDispatchesNothing(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.UpdateTaskStatus(f.ctxFor(t, "user-001"), &pb.UpdateTaskStatusRequest{TaskId: "user-001-task-2", Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Task.Status)
	assert.NotNil(t, resp.Task.UpdatedAt)
	assert.False(t, resp.Notified)
	assert.Zero(t, f.notifier.completionCount())
}

func TestUpdateTaskStatusByNonOwnerLeavesTaskUntouched(t *testing.T) {
	f := newFixture(t, nil)
	const id = "user-001-task-1"

	for _, caller := range []string{"user-002", "admin-001"} {
		_, err := f.svc.UpdateTaskStatus(f.ctxFor(t, caller), &pb.UpdateTaskStatusRequest{TaskId: id, Status: "completed"})
		requireCode(t, err, codes.PermissionDenied)
	}

	task, err := f.db.GetById(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.UpdatedAt)
	assert.Zero(t, f.notifier.completionCount())
}

func TestUpdateTaskStatusRejectsBogusStatus(t *testing.T) {
	f := newFixture(t, nil)
	const id = "user-001-task-1"

	_, err := f.svc.UpdateTaskStatus(f.ctxFor(t, "user-001"), &pb.UpdateTaskStatusRequest{TaskId: id, Status: "bogus"})
	requireCode(t, err, codes.InvalidArgument)

	task, err := f.db.GetById(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.UpdatedAt)
	assert.Zero(t, f.notifier.completionCount())
}

func TestUpdateTaskStatusRejectsPaddedStatus(t *testing.T) {
	f := newFixture(t, nil)
	const id = "user-001-task-1"

	for _, raw := range []string{" completed", "completed\n", "\tin_progress "} {
		_, err := f.svc.UpdateTaskStatus(f.ctxFor(t, "user-001"), &pb.UpdateTaskStatusRequest{TaskId: id, Status: raw})
		requireCode(t, err, codes.InvalidArgument)
	}

	task, err := f.db.GetById(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Nil(t, task.UpdatedAt)
	assert.Zero(t, f.notifier.completionCount())
}

func TestUpdateTaskStatusNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.UpdateTaskStatus(f.ctxFor(t, "user-001"), &pb.UpdateTaskStatusRequest{TaskId: "missing", Status: "completed"})
	requireCode(t, err, codes.NotFound)
}

func TestConcurrentDuplicateCompletionsNotifyOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := f.ctxFor(t, "user-003")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{TaskId: "user-003-task-1", Status: "completed"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.notifier.completionCount())
}

func TestListPrincipals(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListPrincipals(f.ctxFor(t, "user-001"), &pb.ListPrincipalsRequest{})
	requireCode(t, err, codes.PermissionDenied)

	resp, err := f.svc.ListPrincipals(f.ctxFor(t, "admin-001"), &pb.ListPrincipalsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 4)
	assert.Equal(t, "admin", resp.Users[0].Role)
}

func TestSyncSubscriber(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.SyncSubscriber(f.ctxFor(t, "admin-001"), &pb.SyncSubscriberRequest{})
	require.NoError(t, err)
	assert.Equal(t, subscriberSyncMessage, resp.Message)
	require.Len(t, f.notifier.subscribers, 1)
	assert.Equal(t, "admin-001", f.notifier.subscribers[0].SubscriberId)
}

func TestNotificationsWithoutInbox(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListNotifications(f.ctxFor(t, "admin-001"), &pb.ListNotificationsRequest{})
	requireCode(t, err, codes.Unimplemented)

	_, err = f.svc.MarkNotificationRead(f.ctxFor(t, "admin-001"), &pb.MarkNotificationReadRequest{MessageId: "m1"})
	requireCode(t, err, codes.Unimplemented)
}

func TestNotificationsWithInbox(t *testing.T) {
	inbox := &fakeInbox{items: []models.Notification{{Id: "m1", Content: "user1 has completed task: Task 1"}}}
	f := newFixture(t, inbox)
	ctx := f.ctxFor(t, "admin-001")

	resp, err := f.svc.ListNotifications(ctx, &pb.ListNotificationsRequest{Limit: 1000})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "m1", resp.Notifications[0].Id)
	assert.Equal(t, maxNotificationLimit, inbox.gotLimit)

	_, err = f.svc.MarkNotificationRead(ctx, &pb.MarkNotificationReadRequest{})
	requireCode(t, err, codes.InvalidArgument)

	read, err := f.svc.MarkNotificationRead(ctx, &pb.MarkNotificationReadRequest{MessageId: "m1"})
	require.NoError(t, err)
	assert.Equal(t, notificationReadMessage, read.Message)
	assert.Equal(t, []string{"admin-001/m1"}, inbox.marked)

	inbox.err = errors.New("provider down")
	_, err = f.svc.ListNotifications(ctx, &pb.ListNotificationsRequest{})
	requireCode(t, err, codes.Unavailable)
}

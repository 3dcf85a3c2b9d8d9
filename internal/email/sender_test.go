package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  string
	auth smtp.Auth
}

func newTestSender(c *captured, err error) *EmailSenderService {
	cfg := &config.SMTP{Email: "bot@example.com", Password: "pw", Host: "smtp.example.com", Port: 2525}
	return NewEmailSender(cfg, logging.Discard(), WithSendMail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*c = captured{addr: addr, from: from, to: to, msg: string(msg), auth: a}
		return err
	}))
}

func completionMessage() models.TriggerMessage {
	return models.TriggerMessage{
		WorkflowId: "task-completed-notification",
		To:         models.Target{SubscriberId: "admin-001", Email: "admin@example.com"},
		Payload: models.CompletionPayload{
			TaskId:          "user-001-task-1",
			TaskTitle:       "Task 1",
			TaskDescription: "Description for task 1",
			UserName:        "user1",
			UserId:          "user-001",
			CompletedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Message:         "user1 has completed task: Task 1",
		},
	}
}

func TestSendCompletion(t *testing.T) {
	var c captured
	s := newTestSender(&c, nil)

	require.NoError(t, s.SendCompletion("admin@example.com", completionMessage()))

	assert.Equal(t, "smtp.example.com:2525", c.addr)
	assert.Equal(t, "bot@example.com", c.from)
	assert.Equal(t, []string{"admin@example.com"}, c.to)
	assert.NotNil(t, c.auth)
	assert.Contains(t, c.msg, "Subject: Task completed: Task 1\r\n")
	assert.Contains(t, c.msg, "user1 has completed task: Task 1")
	assert.Contains(t, c.msg, "2024-05-01 12:00:00 UTC")
}

func TestSendCompletionEscapesPayload(t *testing.T) {
	var c captured
	s := newTestSender(&c, nil)

	msg := completionMessage()
	msg.Payload.TaskTitle = "<script>x</script>\r\nBcc: evil@example.com"
	require.NoError(t, s.SendCompletion("admin@example.com", msg))

	header, body, ok := strings.Cut(c.msg, "\r\n\r\n")
	require.True(t, ok)
	assert.NotContains(t, header, "\r\nBcc:")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestSendCompletionError(t *testing.T) {
	var c captured
	boom := errors.New("connection refused")
	s := newTestSender(&c, boom)

	assert.ErrorIs(t, s.SendCompletion("admin@example.com", completionMessage()), boom)
}

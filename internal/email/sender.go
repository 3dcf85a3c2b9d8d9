package email

import (
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/pkg/logging"
)

var ErrRenderTemplate = errors.New("email template render error")

// SendMailFunc has the signature of smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailSenderService struct {
	smtpConfig *config.SMTP
	sendMail   SendMailFunc
	log        *slog.Logger
}

type Option func(*EmailSenderService)

func WithSendMail(fn SendMailFunc) Option {
	return func(s *EmailSenderService) {
		if fn != nil {
			s.sendMail = fn
		}
	}
}

func NewEmailSender(smtpCfg *config.SMTP, log *slog.Logger, opts ...Option) *EmailSenderService {
	s := &EmailSenderService{smtpConfig: smtpCfg, sendMail: smtp.SendMail, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EmailSenderService) SendCompletion(to string, msg models.TriggerMessage) error {
	subject := "Task completed: " + msg.Payload.TaskTitle

	body, err := renderCompletionTemplate(msg.Payload)
	if err != nil {
		s.log.Error("completion template render error", logging.Err(err))
		return ErrRenderTemplate
	}

	if err := s.sendEmail(to, subject, body); err != nil {
		return fmt.Errorf("send completion email: %w", err)
	}

	s.log.Info("completion email sent", "task_id", msg.Payload.TaskId)
	return nil
}

func (s *EmailSenderService) sendEmail(to, subject, body string) error {
	var auth smtp.Auth
	if s.smtpConfig.Password != "" {
		auth = smtp.PlainAuth("", s.smtpConfig.Email, s.smtpConfig.Password, s.smtpConfig.Host)
	}

	msg := []byte(
		"From: " + s.smtpConfig.Email + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + headerSafe(subject) + "\r\n" +
			"MIME-version: 1.0;\r\n" +
			"Content-Type: text/html; charset=\"UTF-8\";\r\n" +
			"\r\n" + body,
	)

	addr := fmt.Sprintf("%s:%d", s.smtpConfig.Host, s.smtpConfig.Port)
	return s.sendMail(addr, auth, s.smtpConfig.Email, []string{to}, msg)
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeAnalyticsWarmup pre-populates the sales dashboard caches.
	TaskTypeAnalyticsWarmup = "analytics:warmup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewAnalyticsWarmupTask constructs the cache warmup task.
func NewAnalyticsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeAnalyticsWarmup, nil)
}

// SMTPConfig carries the outbound mail settings.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

func (c SMTPConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Mailer sends emails over plain SMTP (Mailpit in development).
type Mailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
	send   func(addr, from string, to []string, msg []byte) error
}

// NewMailer constructs the SMTP sender.
func NewMailer(cfg SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (m *Mailer) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(payload.Body)

	if err := m.send(m.cfg.addr(), m.cfg.From, []string{payload.To}, []byte(msg.String())); err != nil {
		m.logger.Error("send email failed", "to", payload.To, "error", err)
		return err
	}
	m.logger.Info("email sent", "to", payload.To, "subject", payload.Subject)
	return nil
}

// AnalyticsWarmer is the slice of the analytics service the warmup task
// needs.
type AnalyticsWarmer interface {
	Warmup(ctx context.Context) error
}

// NewAnalyticsWarmupHandler builds the handler for the warmup cron.
func NewAnalyticsWarmupHandler(warmer AnalyticsWarmer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if warmer == nil {
			return nil
		}
		if err := warmer.Warmup(ctx); err != nil {
			logger.Error("analytics warmup failed", "error", err)
			return err
		}
		logger.Info("analytics warmup completed")
		return nil
	}
}

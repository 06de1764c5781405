package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/sentra-hr/attendance-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendNotice(to, recipientName, subject, message, redirectURL string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	client    *mail.Client
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	svc := &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}

	if cfg.Host != "" {
		client, err := mail.NewClient(cfg.Host,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithPort(cfg.Port),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create mail client: %w", err)
		}
		svc.client = client
	}

	return svc, nil
}

type noticeEmailData struct {
	RecipientName string
	Message       string
	RedirectURL   string
}

// SendNotice sends a notification email to the employee
func (s *emailServiceImpl) SendNotice(to, recipientName, subject, message, redirectURL string) error {
	data := noticeEmailData{
		RecipientName: recipientName,
		Message:       message,
		RedirectURL:   redirectURL,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "notice.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.client == nil {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.client.DialAndSend(msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"sync"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Render executes one of the embedded templates, e.g. "password_reset.html".
func Render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	return body.String(), nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	raw := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From, msg.To, msg.Subject, msg.HTML,
	)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(raw)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer writes messages to the request logger instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logging.FromContext(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("bytes", len(msg.HTML)).
		Msg("email_not_sent_no_smtp")
	return nil
}

// Outbox records messages in memory.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (o *Outbox) Send(_ context.Context, msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.sent))
	copy(out, o.sent)
	return out
}

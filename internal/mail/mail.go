// Package mail relays contact form submissions to the site owner's inbox.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ErrNotConfigured is returned when no mail transport has credentials.
var ErrNotConfigured = errors.New("mail: no transport configured")

// Message is one contact form submission.
type Message struct {
	Name    string `json:"name" form:"name" binding:"required,max=200"`
	Email   string `json:"email" form:"email" binding:"required,email,max=320"`
	Subject string `json:"subject" form:"subject" binding:"required,max=300"`
	Body    string `json:"message" form:"message" binding:"required,max=10000"`
}

// Subject line of the relayed email.
func (m Message) SubjectLine() string {
	return "Portfolio message: " + m.Subject
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Config selects and configures a transport. Resend wins over SMTP when
// both are set.
type Config struct {
	ResendAPIKey string
	From         string
	To           string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// New returns the sender described by cfg.
func New(cfg Config) Sender {
	switch {
	case cfg.ResendAPIKey != "":
		return NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.To)
	case cfg.SMTPUser != "" && cfg.SMTPPass != "":
		return &SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.To,
		}
	default:
		return unconfigured{}
	}
}

type unconfigured struct{}

func (unconfigured) Send(context.Context, Message) error { return ErrNotConfigured }

var bodyTemplate = template.Must(template.New("body").Parse(`<h1>New message from the portfolio contact form</h1>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Sender email:</strong> {{.Email}}</p>
<hr>
<h2>{{.Subject}}</h2>
<p>{{.Body}}</p>
`))

// HTMLBody renders the message for HTML mail, escaping user input.
func HTMLBody(m Message) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("render mail body: %w", err)
	}
	return buf.String(), nil
}

// ResendSender delivers through the Resend email API.
type ResendSender struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendSender(apiKey, from, to string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from, to: to}
}

func (s *ResendSender) Send(ctx context.Context, m Message) error {
	html, err := HTMLBody(m)
	if err != nil {
		return err
	}
	_, err = s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: m.SubjectLine(),
		Html:    html,
		ReplyTo: m.Email,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// SMTPSender delivers with plain SMTP auth.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if s.User == "" || s.Pass == "" {
		return ErrNotConfigured
	}
	msg, err := s.compose(m)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.Host+":"+s.Port, auth, s.User, []string{s.To}, msg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// compose builds the raw RFC 822 message.
func (s *SMTPSender) compose(m Message) ([]byte, error) {
	html, err := HTMLBody(m)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("To: " + s.To + "\r\n")
	b.WriteString("From: " + s.User + "\r\n")
	b.WriteString("Reply-To: " + headerValue(m.Email) + "\r\n")
	b.WriteString("Subject: " + headerValue(m.SubjectLine()) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return []byte(b.String()), nil
}

// headerValue strips line breaks so user input cannot add headers.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/oksasatya/iterate-backend/pkg/mailer/templates"
)

var ErrNoRecipient = errors.New("email job has no recipient")

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

// SendJob renders job's template, if any, and sends it.
func (m *Mailgun) SendJob(ctx context.Context, job EmailJob) error {
	job, err := Prepare(job)
	if err != nil {
		return err
	}
	return m.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}

// Prepare fills Subject/Text/HTML from the job's template.
func Prepare(job EmailJob) (EmailJob, error) {
	if job.To == "" {
		return job, ErrNoRecipient
	}
	if job.Template == "" {
		return job, nil
	}
	subject, text, html, err := templates.Render(job.Template, job.Data)
	if err != nil {
		return job, fmt.Errorf("render %s: %w", job.Template, err)
	}
	job.Subject, job.Text, job.HTML = subject, text, html
	return job, nil
}

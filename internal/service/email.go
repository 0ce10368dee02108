package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
	"golang.org/x/text/language"
)

// Mailer delivers account emails. Implementations may fail on provider errors.
type Mailer interface {
	SendAccountActivation(ctx context.Context, to, token string, locale language.Tag) error
	SendPasswordReset(ctx context.Context, to, token string, locale language.Tag) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
	templates *emailTemplates
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
		templates: newEmailTemplates(),
	}
}

func (s *EmailService) SendAccountActivation(ctx context.Context, to, token string, locale language.Tag) error {
	link := fmt.Sprintf("%s/activate/%s", s.appURL, url.PathEscape(token))
	return s.send(ctx, emailActivation, to, link, locale)
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, token string, locale language.Tag) error {
	link := fmt.Sprintf("%s/password-reset?reset=%s", s.appURL, url.QueryEscape(token))
	return s.send(ctx, emailPasswordReset, to, link, locale)
}

func (s *EmailService) send(ctx context.Context, kind, to, link string, locale language.Tag) error {
	email, err := s.templates.render(kind, locale, emailData{AppName: s.appName, URL: link})
	if err != nil {
		return err
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", email.Subject, "url", link)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}

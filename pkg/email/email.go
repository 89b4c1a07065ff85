package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Dialer is the SMTP transport. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Email struct {
	config config.EmailConfig
	isDev  bool
	dialer Dialer
	cache  *EmailTemplateCache
	logger *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) (*Email, error) {
	d := gomail.NewDialer(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Email.Host}

	return NewWithDialer(cfg, d, log)
}

func NewWithDialer(cfg *config.Config, dialer Dialer, log *logger.Logger) (*Email, error) {
	cache, err := NewEmailTemplateCache(templateCacheSize)
	if err != nil {
		return nil, err
	}

	return &Email{
		config: cfg.Email,
		isDev:  cfg.IsDev,
		dialer: dialer,
		cache:  cache,
		logger: log,
	}, nil
}

func (e *Email) Render(name EmailTemplateType, data any) (string, error) {
	return e.cache.Render(name, data)
}

func (e *Email) Send(ctx context.Context, input *SendEmailInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// In dev mode
	if e.isDev {
		e.logger.Info().
			Str("to", input.To).
			Str("subject", input.Subject).
			Int("attachments", len(input.Attachments)).
			Msg("email not sent in development")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.config.From)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", input.Subject)
	m.SetBody("text/html", input.Body)

	for _, a := range input.Attachments {
		content := a.Content
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.MimeType}}),
		)
	}

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

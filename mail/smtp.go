package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/learnhub"
	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig points at the relay.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SENDER_EMAIL"`
}

const smtpTimeout = 15 * time.Second

type deliverFunc func(ctx context.Context, msgs ...*gomail.Msg) error

// SMTP delivers rendered templates through a go-mail client. Port 465 uses
// implicit TLS; other ports upgrade with STARTTLS when the relay offers it.
type SMTP struct {
	cfg      SMTPConfig
	renderer *Renderer
	logger   *slog.Logger
	deliver  deliverFunc
	now      func() time.Time
}

var _ learnhub.Mailer = (*SMTP)(nil)

func NewSMTP(cfg SMTPConfig, logger *slog.Logger) (*SMTP, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, errors.New("smtp: host and sender are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []gomail.Option{gomail.WithPort(cfg.Port), gomail.WithTimeout(smtpTimeout)}
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	return &SMTP{cfg: cfg, renderer: renderer, logger: logger, deliver: client.DialAndSendWithContext, now: time.Now}, nil
}

// Send renders template and delivers it to one recipient.
func (s *SMTP) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := s.renderer.Render(template, data)
	if err != nil {
		return err
	}
	msg, err := s.message(to, subject, html)
	if err != nil {
		return err
	}

	if err := s.deliver(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "mail delivery failed", "template", template, "error", err)
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.DebugContext(ctx, "mail sent", "template", template)
	return nil
}

func (s *SMTP) message(to, subject, html string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp sender %q: %w", s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: recipient %q: %v", learnhub.ErrInvalidInput, to, err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(s.now())
	msg.SetBodyString(gomail.TypeTextHTML, html)
	return msg, nil
}

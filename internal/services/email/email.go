// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/i18n"
	"github.com/wneessen/go-mail"
)

// VerifyPath is the endpoint that redeems verification tokens.
const VerifyPath = "/api/verify-email"

// Message is a plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport delivers a message.
type Transport func(ctx context.Context, msg Message) error

// Service renders and sends transactional emails.
type Service struct {
	cfg       *config.SMTPConfig
	transport Transport
	baseURL   string
	expiry    time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTransport replaces the delivery mechanism.
func WithTransport(t Transport) Option {
	return func(s *Service) {
		s.transport = t
	}
}

// NewService creates an email service. Without an SMTP host, messages are
// written to the log instead of being sent.
func NewService(cfg *config.SMTPConfig, baseURL string, expiry time.Duration, opts ...Option) (*Service, error) {
	if cfg.From == "" {
		return nil, errors.New("SMTP from address is required")
	}

	s := &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		expiry:  expiry,
	}
	if cfg.Host != "" {
		s.transport = s.sendSMTP
	} else {
		s.transport = logTransport
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// VerificationURL builds the link embedded in verification emails.
func (s *Service) VerificationURL(token string) string {
	return s.baseURL + VerifyPath + "?token=" + url.QueryEscape(token)
}

// SendVerification sends a verification email with the given token.
func (s *Service) SendVerification(ctx context.Context, toEmail, token string) error {
	subject := i18n.T(ctx, "email_verification_subject")
	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"VerifyURL": s.VerificationURL(token),
		"Hours":     int(s.expiry.Hours()),
	})

	return s.transport(ctx, Message{To: toEmail, Subject: subject, Body: body})
}

var tokenParam = regexp.MustCompile(`token=[^\s&]+`)

// logTransport writes msg to the log with verification tokens masked.
func logTransport(_ context.Context, msg Message) error {
	slog.Info("email_logged", "to", msg.To, "subject", msg.Subject,
		"body", tokenParam.ReplaceAllString(msg.Body, "token=[redacted]"))
	return nil
}

// buildMessage converts msg into a go-mail message.
func (s *Service) buildMessage(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := m.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

// sendSMTP sends an email via SMTP using go-mail.
func (s *Service) sendSMTP(ctx context.Context, msg Message) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Use implicit TLS (SSL) for port 465, STARTTLS for others
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// Package mail delivers the verification and password reset emails over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

const (
	subjectPasswordReset     = "Password Reset Request"
	subjectEmailVerification = "Verify Your Email Address"
)

// SMTPSender implements port.MailSender on top of an SMTP client.
type SMTPSender struct {
	client  *gomail.Client
	sender  string
	baseURL string
	logger  *zap.Logger
}

// NewSMTPSender builds an SMTP-backed sender from mail settings.
func NewSMTPSender(cfg config.MailSettings, log *zap.Logger) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}

	if cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
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
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	log.Info("smtp mail sender initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Bool("tls", cfg.UseTLS),
	)

	return &SMTPSender{
		client:  client,
		sender:  cfg.Sender,
		baseURL: cfg.FrontendBaseURL,
		logger:  log,
	}, nil
}

// SendPasswordResetEmail delivers the reset token to recipient.
func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, recipient string, token string) error {
	return s.send(ctx, recipient, subjectPasswordReset, passwordResetBody(token, s.baseURL))
}

// SendVerificationEmail delivers the verification link to recipient.
func (s *SMTPSender) SendVerificationEmail(ctx context.Context, recipient string, token string) error {
	return s.send(ctx, recipient, subjectEmailVerification, verificationBody(token, s.baseURL))
}

func (s *SMTPSender) send(ctx context.Context, recipient, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("recipient", logger.MaskEmail(recipient)),
		zap.String("subject", subject),
	)

	return nil
}

func passwordResetBody(token, baseURL string) string {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)

	return fmt.Sprintf(`Hello,

You have requested to reset your password. Use the following token to reset your password:

%s

Or visit this URL:
%s

This link will expire in 1 hour.

If you did not request this, please ignore this email.

Best regards,
Your Application Team
`, token, resetURL)
}

func verificationBody(token, baseURL string) string {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)

	return fmt.Sprintf(`Hello,

Thank you for registering! Please verify your email address by clicking the link below:

%s

This link will expire in 24 hours.

If you did not create an account, please ignore this email.

Best regards,
Your Application Team
`, verifyURL)
}

var _ port.MailSender = (*SMTPSender)(nil)

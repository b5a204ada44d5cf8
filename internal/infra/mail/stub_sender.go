package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

// StubSender logs emails instead of sending them. Useful for development
// environments without an SMTP server.
type StubSender struct {
	logger *zap.Logger
}

// NewStubSender constructs a development-friendly mail sender.
func NewStubSender(log *zap.Logger) *StubSender {
	return &StubSender{logger: log}
}

// SendPasswordResetEmail logs the password reset dispatch.
func (s *StubSender) SendPasswordResetEmail(_ context.Context, recipient string, token string) error {
	s.logger.Info("stub email sent",
		zap.String("subject", subjectPasswordReset),
		zap.String("recipient", logger.MaskEmail(recipient)),
		zap.String("token", logger.MaskString(token)),
	)
	return nil
}

// SendVerificationEmail logs the verification dispatch.
func (s *StubSender) SendVerificationEmail(_ context.Context, recipient string, token string) error {
	s.logger.Info("stub email sent",
		zap.String("subject", subjectEmailVerification),
		zap.String("recipient", logger.MaskEmail(recipient)),
		zap.String("token", logger.MaskString(token)),
	)
	return nil
}

var _ port.MailSender = (*StubSender)(nil)

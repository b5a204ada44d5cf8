package port

import "context"

// MailSender delivers out-of-band proof tokens to account holders. Delivery
// failures are reported to the caller but must never abort the operation that
// triggered them.
type MailSender interface {
	SendVerificationEmail(ctx context.Context, recipient string, token string) error
	SendPasswordResetEmail(ctx context.Context, recipient string, token string) error
}

package ports

import "context"

// Mailer dispatches transactional mail. The password-recovery flow is its only
// caller today.
type Mailer interface {
	SendPasswordRecovery(ctx context.Context, to, code, resetLink string) error
}

// Package mail provides the outbound-mail collaborator used by the OTP and
// password-reset flows.
package mail

import "context"

// Sender dispatches a single message. Implementations must not retain the
// body after returning.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

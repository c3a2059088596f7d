package otps

import (
	"context"
	"time"

	"github.com/passvault/passvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, challenge *models.OtpChallenge) error

	// Consume atomically marks the challenge matching (email, code) as used,
	// provided it is still unused and unexpired at now. Returns
	// common.ErrorNotFound when no such challenge wins the update, so
	// concurrent verifications cannot both succeed.
	Consume(ctx context.Context, email, code string, now time.Time) error
}

package resettokens

import (
	"context"
	"time"

	"github.com/passvault/passvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.ResetToken) error

	// Consume atomically marks the row holding the exact token string as
	// used, provided it is still unused and its own row expiry has not
	// passed at now. Returns common.ErrorNotFound otherwise. The signed
	// token's embedded expiry is the caller's concern.
	Consume(ctx context.Context, token string, now time.Time) (*models.ResetToken, error)
}

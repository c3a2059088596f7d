package vault

import (
	"context"

	"github.com/passvault/passvault/internal/server/models"
)

// Repository stores encrypted credential records. Every operation is scoped
// to the owning user id; a row is never visible outside its owner.
type Repository interface {
	Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error)
	Update(ctx context.Context, entry *models.VaultEntry) error
	Delete(ctx context.Context, id, userID string) error
}

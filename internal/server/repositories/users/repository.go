package users

import (
	"context"

	"github.com/passvault/passvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, hashedPassword string) error
}

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, hashed_password, verified)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.HashedPassword, user.Verified).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, hashed_password, verified, created_at, updated_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	query :=
		`UPDATE users SET hashed_password = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, hashedPassword)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, token *models.ResetToken) error {
	query :=
		`INSERT INTO password_reset_tokens (id, user_id, token, expiration_time, used)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.ExpirationTime, token.Used)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string, now time.Time) (*models.ResetToken, error) {
	query :=
		`UPDATE password_reset_tokens SET used = TRUE
		 WHERE token = $1 AND used = FALSE AND expiration_time > $2
		 RETURNING id, user_id, token, expiration_time, used
		 `

	row := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, token, now).
		Scan(&row.ID, &row.UserID, &row.Token, &row.ExpirationTime, &row.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return row, nil
}

package otps

import (
	"context"
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

func (r *PostgresRepository) Create(ctx context.Context, challenge *models.OtpChallenge) error {
	query :=
		`INSERT INTO otp_tokens (id, email, otp, expiration_time, used)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		challenge.ID, challenge.Email, challenge.Code, challenge.ExpirationTime, challenge.Used)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, email, code string, now time.Time) error {
	// Single conditional UPDATE: the used/expiry check and the mark-used are
	// one atomic statement, so at most one concurrent verify can win.
	query :=
		`UPDATE otp_tokens SET used = TRUE
		 WHERE email = $1 AND otp = $2 AND used = FALSE AND expiration_time > $3
		 `

	res, err := r.db.ExecContext(ctx, query, email, code, now)
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

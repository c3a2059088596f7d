package vault

import (
	"context"
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

func (r *PostgresRepository) Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error) {
	query :=
		`INSERT INTO passwords (id, user_id, website, username, encrypted_password, iv, salt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, entry.Website, entry.Username,
		entry.EncryptedPassword, entry.IV, entry.Salt).
		Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	query :=
		`SELECT id, user_id, website, username, encrypted_password, iv, salt, created_at, updated_at
		 FROM passwords
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var entries []*models.VaultEntry
	for rows.Next() {
		entry := &models.VaultEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Website, &entry.Username,
			&entry.EncryptedPassword, &entry.IV, &entry.Salt,
			&entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.VaultEntry) error {
	query :=
		`UPDATE passwords
		 SET website = $3, username = $4, encrypted_password = $5, iv = $6, salt = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Website, entry.Username,
		entry.EncryptedPassword, entry.IV, entry.Salt)
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

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query :=
		`DELETE FROM passwords
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

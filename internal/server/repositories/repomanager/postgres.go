package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/server/migrations"
	"github.com/passvault/passvault/internal/server/repositories/otps"
	"github.com/passvault/passvault/internal/server/repositories/resettokens"
	"github.com/passvault/passvault/internal/server/repositories/users"
	"github.com/passvault/passvault/internal/server/repositories/vault"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Otps(db dbx.DBTX) otps.Repository {
	return otps.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Vault(db dbx.DBTX) vault.Repository {
	return vault.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

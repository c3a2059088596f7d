// Package repomanager builds repositories over an arbitrary DB handle so the
// same code runs against *sql.DB or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/server/repositories/otps"
	"github.com/passvault/passvault/internal/server/repositories/resettokens"
	"github.com/passvault/passvault/internal/server/repositories/users"
	"github.com/passvault/passvault/internal/server/repositories/vault"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Otps(db dbx.DBTX) otps.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	Vault(db dbx.DBTX) vault.Repository
}

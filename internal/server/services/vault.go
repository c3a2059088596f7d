package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/passvault/passvault/internal/server/models"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
)

// VaultService is plain ownership-scoped CRUD over encrypted credential
// records. The interesting invariants live in the repository queries, which
// always filter by the owning user id.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

func (s *VaultService) Add(ctx context.Context, userID string, entry *models.VaultEntry) (*models.VaultEntry, error) {
	entry.ID = uuid.NewString()
	entry.UserID = userID

	entry, err := s.repomanager.Vault(s.db).Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating vault entry: %w", err)
	}
	return entry, nil
}

func (s *VaultService) List(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	entries, err := s.repomanager.Vault(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing vault entries: %w", err)
	}
	return entries, nil
}

// Update rewrites the entry identified by entry.ID, provided it belongs to
// userID. common.ErrorNotFound covers both a missing row and another
// owner's row.
func (s *VaultService) Update(ctx context.Context, userID string, entry *models.VaultEntry) error {
	entry.UserID = userID
	return s.repomanager.Vault(s.db).Update(ctx, entry)
}

func (s *VaultService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Vault(s.db).Delete(ctx, id, userID)
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/server/models"
	otpsrepo "github.com/passvault/passvault/internal/server/repositories/otps"
	resetrepo "github.com/passvault/passvault/internal/server/repositories/resettokens"
	usersrepo "github.com/passvault/passvault/internal/server/repositories/users"
	vaultrepo "github.com/passvault/passvault/internal/server/repositories/vault"
)

// --- shared helpers and fakes ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User

	createErr error
	getErr    error

	created         []*models.User
	passwordUpdates map[string]string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail:         map[string]*models.User{},
		passwordUpdates: map[string]string{},
	}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	f.passwordUpdates[userID] = hashedPassword
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.HashedPassword = hashedPassword
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeOtpsRepo struct {
	createErr  error
	consumeErr error

	created  []*models.OtpChallenge
	consumed [][2]string
}

func (f *fakeOtpsRepo) Create(ctx context.Context, c *models.OtpChallenge) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeOtpsRepo) Consume(ctx context.Context, email, code string, now time.Time) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, [2]string{email, code})
	return nil
}

type fakeResetRepo struct {
	createErr  error
	consumeOut *models.ResetToken
	consumeErr error

	created []*models.ResetToken
}

func (f *fakeResetRepo) Create(ctx context.Context, token *models.ResetToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeResetRepo) Consume(ctx context.Context, token string, now time.Time) (*models.ResetToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.consumeOut, nil
}

type fakeVaultRepo struct {
	createErr error
	listOut   []*models.VaultEntry
	listErr   error
	updateErr error
	deleteErr error

	created []*models.VaultEntry
	deleted [][2]string
}

func (f *fakeVaultRepo) Create(ctx context.Context, e *models.VaultEntry) (*models.VaultEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeVaultRepo) ListByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeVaultRepo) Update(ctx context.Context, e *models.VaultEntry) error {
	return f.updateErr
}

func (f *fakeVaultRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, [2]string{id, userID})
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	o *fakeOtpsRepo
	r *fakeResetRepo
	v *fakeVaultRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Otps(db dbx.DBTX) otpsrepo.Repository         { return m.o }
func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resetrepo.Repository { return m.r }
func (m *fakeRepoManager) Vault(db dbx.DBTX) vaultrepo.Repository       { return m.v }

type fakeMailer struct {
	sendErr error

	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/logging"
	"github.com/passvault/passvault/internal/server/auth"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/server/models"
	otpsrepo "github.com/passvault/passvault/internal/server/repositories/otps"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
	resetrepo "github.com/passvault/passvault/internal/server/repositories/resettokens"
	usersrepo "github.com/passvault/passvault/internal/server/repositories/users"
	vaultrepo "github.com/passvault/passvault/internal/server/repositories/vault"
	"github.com/passvault/passvault/internal/server/services"
	"github.com/passvault/passvault/internal/timex"
)

// --- in-memory repositories backing the handler tests ---

type memUsersRepo struct {
	byEmail map[string]*models.User
}

func (f *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *memUsersRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.HashedPassword = hashedPassword
			return nil
		}
	}
	return common.ErrorNotFound
}

type memOtpsRepo struct {
	consumeErr error
	created    []*models.OtpChallenge
}

func (f *memOtpsRepo) Create(ctx context.Context, c *models.OtpChallenge) error {
	f.created = append(f.created, c)
	return nil
}

func (f *memOtpsRepo) Consume(ctx context.Context, email, code string, now time.Time) error {
	return f.consumeErr
}

type memResetRepo struct {
	consumeErr error
	created    []*models.ResetToken
}

func (f *memResetRepo) Create(ctx context.Context, token *models.ResetToken) error {
	f.created = append(f.created, token)
	return nil
}

func (f *memResetRepo) Consume(ctx context.Context, token string, now time.Time) (*models.ResetToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	for _, row := range f.created {
		if row.Token == token {
			return row, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memVaultRepo struct {
	entries map[string]*models.VaultEntry
}

func (f *memVaultRepo) Create(ctx context.Context, e *models.VaultEntry) (*models.VaultEntry, error) {
	f.entries[e.ID] = e
	return e, nil
}

func (f *memVaultRepo) ListByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	var out []*models.VaultEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *memVaultRepo) Update(ctx context.Context, e *models.VaultEntry) error {
	stored, ok := f.entries[e.ID]
	if !ok || stored.UserID != e.UserID {
		return common.ErrorNotFound
	}
	f.entries[e.ID] = e
	return nil
}

func (f *memVaultRepo) Delete(ctx context.Context, id, userID string) error {
	stored, ok := f.entries[id]
	if !ok || stored.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.entries, id)
	return nil
}

type memRepoManager struct {
	u *memUsersRepo
	o *memOtpsRepo
	r *memResetRepo
	v *memVaultRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		u: &memUsersRepo{byEmail: map[string]*models.User{}},
		o: &memOtpsRepo{},
		r: &memResetRepo{},
		v: &memVaultRepo{entries: map[string]*models.VaultEntry{}},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *memRepoManager) Otps(db dbx.DBTX) otpsrepo.Repository         { return m.o }
func (m *memRepoManager) ResetTokens(db dbx.DBTX) resetrepo.Repository { return m.r }
func (m *memRepoManager) Vault(db dbx.DBTX) vaultrepo.Repository       { return m.v }

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

type memMailer struct {
	sendErr error
	sent    []string
}

func (f *memMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, body)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- harness ---

type testServer struct {
	handler http.Handler
	rm      *memRepoManager
	mailer  *memMailer
	codec   *auth.Codec
	mock    sqlmock.Sqlmock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = 4

	rm := newMemRepoManager()
	mailer := &memMailer{}
	clock := timex.RealClock{}
	codec := auth.NewCodec([]byte(cfg.SecretKey), clock)

	otp := services.NewOtpService(db, rm, mailer, clock, cfg)
	reset := services.NewResetService(db, rm, codec, mailer, clock, cfg)
	authService := services.NewAuthService(db, rm, codec, otp, reset, clock, cfg)
	vaultService := services.NewVaultService(db, rm)

	srv := NewServer(cfg, nopLogger{}, codec, authService, vaultService)
	return &testServer{handler: srv.Router(), rm: rm, mailer: mailer, codec: codec, mock: mock}
}

func decodeEnvelope(t *testing.T, body io.Reader) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return env
}

func decodeMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return m
}

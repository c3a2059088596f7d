package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/dbx"
	"github.com/passvault/passvault/internal/server/auth"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/server/mail"
	"github.com/passvault/passvault/internal/server/models"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
	"github.com/passvault/passvault/internal/timex"
)

// ResetService issues and redeems single-use password-reset tokens. The
// token string is a reset-typed signed token; a row with its own independent
// expiry tracks the single-use state. Both expiries are checked on
// redemption, signed one first.
type ResetService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	codec           *auth.Codec
	mailer          mail.Sender
	clock           timex.Clock
	bcryptCost      int
	tokenValidity   time.Duration
	rowValidity     time.Duration
	frontendBaseURL string
}

// NewResetService constructs a ResetService using repositories and server config.
func NewResetService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, mailer mail.Sender, clock timex.Clock, cfg *config.Config) *ResetService {
	return &ResetService{
		db:              db,
		repomanager:     m,
		codec:           codec,
		mailer:          mailer,
		clock:           clock,
		bcryptCost:      cfg.BcryptCost,
		tokenValidity:   cfg.ResetTokenValidity,
		rowValidity:     cfg.ResetRowValidity,
		frontendBaseURL: cfg.FrontendBaseURL,
	}
}

// Issue mints a reset token for the user, mails it as a link, persists the
// single-use row, and returns the token. The token travels over both
// channels; the frontend consumes the one in the response body.
func (s *ResetService) Issue(ctx context.Context, user *models.User) (string, error) {
	token, err := s.codec.Issue(user.Email, auth.TypeReset, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("error minting reset token: %w", err)
	}

	body := fmt.Sprintf("Click to reset: %s/reset?token=%s", s.frontendBaseURL, token)
	if err := s.mailer.Send(ctx, user.Email, "Reset Your Password", body); err != nil {
		return "", fmt.Errorf("error sending reset mail: %w", err)
	}

	row := &models.ResetToken{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Token:          token,
		ExpirationTime: s.clock.Now().Add(s.rowValidity),
		Used:           false,
	}
	if err := s.repomanager.ResetTokens(s.db).Create(ctx, row); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}

	return token, nil
}

// Redeem consumes the token and sets the user's password to newPassword.
// The row's used flag and the password update commit as one transaction;
// a second redemption of the same token fails. Every failure mode maps to
// ErrorInvalidCredentials.
func (s *ResetService) Redeem(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return common.ErrorInvalidCredentials
	}

	digest, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row, err := s.repomanager.ResetTokens(tx).Consume(ctx, token, s.clock.Now())
		if err != nil {
			return err
		}

		user, err := s.repomanager.Users(tx).GetByEmail(ctx, claims.Subject)
		if err != nil {
			return err
		}
		if user.ID != row.UserID {
			return common.ErrorNotFound
		}

		return s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, digest)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidCredentials
		}
		return fmt.Errorf("error redeeming reset token: %w", err)
	}

	return nil
}

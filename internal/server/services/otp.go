package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/server/mail"
	"github.com/passvault/passvault/internal/server/models"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
	"github.com/passvault/passvault/internal/timex"
)

// OtpService issues and verifies one-time numeric codes bound to an email.
// Issuing does not invalidate earlier outstanding codes for the same email;
// verification matches the exact (email, code) pair and consumes it.
type OtpService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Sender
	clock       timex.Clock
	otpLength   int
	otpValidity time.Duration
}

// NewOtpService constructs an OtpService using repositories and server config.
func NewOtpService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Sender, clock timex.Clock, cfg *config.Config) *OtpService {
	return &OtpService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		clock:       clock,
		otpLength:   cfg.OtpLength,
		otpValidity: cfg.OtpValidity,
	}
}

// Request generates a fresh code, mails it, and persists the challenge.
// The mail is the deliverable here: a dispatch failure aborts the flow and
// no challenge row is stored. No existence check is made against the user
// directory; codes can be requested for unregistered emails.
func (s *OtpService) Request(ctx context.Context, email string) error {
	code, err := common.MakeNumericCode(s.otpLength)
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}

	body := fmt.Sprintf("Enter the following OTP to verify your email: %s", code)
	if err := s.mailer.Send(ctx, email, "Verification OTP", body); err != nil {
		return fmt.Errorf("error sending otp mail: %w", err)
	}

	challenge := &models.OtpChallenge{
		ID:             uuid.NewString(),
		Email:          email,
		Code:           code,
		ExpirationTime: s.clock.Now().Add(s.otpValidity),
		Used:           false,
	}
	if err := s.repomanager.Otps(s.db).Create(ctx, challenge); err != nil {
		return fmt.Errorf("error storing otp challenge: %w", err)
	}

	return nil
}

// Verify consumes the challenge matching (email, code). A missing, already
// used, or expired challenge is reported as ErrorInvalidCredentials; the
// caller never learns which.
func (s *OtpService) Verify(ctx context.Context, email, code string) error {
	err := s.repomanager.Otps(s.db).Consume(ctx, email, code, s.clock.Now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidCredentials
		}
		return fmt.Errorf("error verifying otp: %w", err)
	}
	return nil
}

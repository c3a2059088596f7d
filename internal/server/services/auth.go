// Package services contains server-side business logic. This file implements
// AuthService, which composes the token codec, the OTP and reset-token
// managers, and the user directory into the signup/login/recovery flows.
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
	"github.com/passvault/passvault/internal/server/models"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
	"github.com/passvault/passvault/internal/timex"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides the authentication flows:
//   - Signup / Login / Refresh for sessions
//   - RequestOtp / VerifyOtp / VerifyUpdatePassword for the OTP challenge path
//   - ForgotPassword / ResetPassword for the tokenized reset path
//   - VerifyMasterPassword for the vault-unlock check
type AuthService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	codec                *auth.Codec
	otp                  *OtpService
	reset                *ResetService
	clock                timex.Clock
	bcryptCost           int
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

// NewAuthService constructs an AuthService from its collaborators and config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, otp *OtpService, reset *ResetService, clock timex.Clock, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                   db,
		repomanager:          m,
		codec:                codec,
		otp:                  otp,
		reset:                reset,
		clock:                clock,
		bcryptCost:           cfg.BcryptCost,
		accessTokenValidity:  cfg.AccessTokenValidity,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

// Signup creates a user with a hashed password. A taken email yields
// ErrorAlreadyExists. The verified flag is set unconditionally; no mail
// verification gates account creation.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	digest, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: digest,
		Verified:       true,
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password and mints one access and one refresh token.
// An unknown email and a wrong password both yield ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, common.ErrorInvalidCredentials
	}

	access, err := s.codec.Issue(user.Email, auth.TypeAccess, s.accessTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}
	refresh, err := s.codec.Issue(user.Email, auth.TypeRefresh, s.refreshTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The signed
// token is the whole session state: nothing is stored and no new refresh
// token is issued. A token of any other type is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return "", common.ErrorInvalidToken
	}
	if claims.TokenType != auth.TypeRefresh {
		return "", common.ErrorInvalidToken
	}

	access, err := s.codec.Issue(claims.Subject, auth.TypeAccess, s.accessTokenValidity)
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}

	return access, nil
}

// RequestOtp delegates to the OTP manager. Deliberately no registration
// check first; forgot-password is the flow that reveals registration.
func (s *AuthService) RequestOtp(ctx context.Context, email string) error {
	return s.otp.Request(ctx, email)
}

// VerifyOtp delegates to the OTP manager and propagates its result as-is.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) error {
	return s.otp.Verify(ctx, email, code)
}

// VerifyUpdatePassword consumes an OTP challenge and sets a new password in
// one transaction. A missing user and a bad challenge both collapse into
// ErrorInvalidCredentials.
func (s *AuthService) VerifyUpdatePassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidCredentials
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	digest, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Otps(tx).Consume(ctx, email, code, s.clock.Now()); err != nil {
			return err
		}
		return s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, digest)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidCredentials
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}

// ForgotPassword requires a registered user (ErrorInvalidCredentials
// otherwise) and delegates to the reset-token manager, returning the token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", fmt.Errorf("error looking up user: %w", err)
	}

	return s.reset.Issue(ctx, user)
}

// ResetPassword delegates to the reset-token manager.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.reset.Redeem(ctx, token, newPassword)
}

// VerifyMasterPassword reports whether the password matches the user's
// stored hash. A wrong password is a plain false; only a missing user is an
// error (ErrorNotFound).
func (s *AuthService) VerifyMasterPassword(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("error looking up user: %w", err)
	}

	return auth.VerifyPassword(password, user.HashedPassword), nil
}

// GetUserByEmail resolves a user for the bearer middleware.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

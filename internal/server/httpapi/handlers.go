package httpapi

import (
	"errors"
	"net/http"

	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/server/validation"
)

type emailRequest struct {
	Email string `json:"email"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type verifyPassRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type masterPasswordRequest struct {
	Email          string `json:"email"`
	MasterPassword string `json:"masterPassword"`
}

func (s *Server) handleRequestOtp(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	s.logger.Info(r.Context(), "otp requested", "email", req.Email)

	if err := s.authService.RequestOtp(r.Context(), req.Email); err != nil {
		s.logger.Error(r.Context(), "otp request failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send OTP.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully!"})
}

func (s *Server) handleVerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}
	if fieldErr := validation.OTP("otp", req.Otp); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	if err := s.authService.VerifyOtp(r.Context(), req.Email, req.Otp); err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid or expired OTP.")
			return
		}
		s.logger.Error(r.Context(), "otp verification failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to verify OTP.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified successfully!"})
}

func (s *Server) handleVerifyPass(w http.ResponseWriter, r *http.Request) {
	var req verifyPassRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}
	if fieldErr := validation.Password("new_password", req.NewPassword); fieldErr != nil {
		s.logger.Warn(r.Context(), "password pattern violation", "email", req.Email)
		writeValidationError(w, http.StatusBadRequest, fieldErr)
		return
	}

	if err := s.authService.VerifyUpdatePassword(r.Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(w, http.StatusNotFound, "Email not registered.")
			return
		}
		s.logger.Error(r.Context(), "verify-pass failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to verify password.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully!"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}
	if fieldErr := validation.Password("password", req.Password); fieldErr != nil {
		s.logger.Warn(r.Context(), "signup password pattern violation", "email", req.Email)
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	s.logger.Info(r.Context(), "signup attempt", "email", req.Email)

	user, err := s.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Warn(r.Context(), "signup rejected, user exists", "email", req.Email)
			writeError(w, http.StatusBadRequest, "Email already registered. Please login.")
			return
		}
		s.logger.Error(r.Context(), "signup failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign up user.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	s.logger.Info(r.Context(), "login requested", "email", req.Email)

	pair, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			s.logger.Warn(r.Context(), "login rejected", "email", req.Email)
			writeError(w, http.StatusNotFound, "Invalid Credentials.")
			return
		}
		s.logger.Error(r.Context(), "login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign in user.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.refreshTokenValidity.Seconds()),
	})

	s.logger.Info(r.Context(), "login successful", "email", req.Email)

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "Login successful",
		"access_token": pair.AccessToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token missing")
		return
	}

	access, err := s.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidToken) {
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		s.logger.Error(r.Context(), "refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	token, err := s.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(w, http.StatusNotFound, "Failed to send mail to user: User not found!")
			return
		}
		s.logger.Error(r.Context(), "forgot-password failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send mail to user.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"reset_token": token,
		"message":     "Reset token stored In DB.",
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Password("new_password", req.NewPassword); fieldErr != nil {
		s.logger.Warn(r.Context(), "reset password pattern violation")
		writeValidationError(w, http.StatusBadRequest, fieldErr)
		return
	}

	if err := s.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid or expired token.")
			return
		}
		s.logger.Error(r.Context(), "reset-password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to change password.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully!"})
}

func (s *Server) handleVerifyMasterPassword(w http.ResponseWriter, r *http.Request) {
	var req masterPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fieldErr := validation.Email("email", req.Email); fieldErr != nil {
		writeValidationError(w, http.StatusUnprocessableEntity, fieldErr)
		return
	}

	valid, err := s.authService.VerifyMasterPassword(r.Context(), req.Email, req.MasterPassword)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error(r.Context(), "master password check failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

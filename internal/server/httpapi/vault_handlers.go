package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/server/models"
)

type vaultEntryRequest struct {
	Website           string `json:"website"`
	Username          string `json:"username"`
	EncryptedPassword string `json:"encrypted_password"`
	IV                string `json:"iv"`
	Salt              string `json:"salt"`
}

type vaultEntryResponse struct {
	ID                string `json:"id"`
	Website           string `json:"website"`
	Username          string `json:"username"`
	EncryptedPassword string `json:"encrypted_password"`
	IV                string `json:"iv"`
	Salt              string `json:"salt"`
}

func (s *Server) handleAddPassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req vaultEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry := &models.VaultEntry{
		Website:           req.Website,
		Username:          req.Username,
		EncryptedPassword: req.EncryptedPassword,
		IV:                req.IV,
		Salt:              req.Salt,
	}
	if _, err := s.vaultService.Add(r.Context(), user.ID, entry); err != nil {
		s.logger.Error(r.Context(), "add password failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password added successfully."})
}

func (s *Server) handleGetPasswords(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	entries, err := s.vaultService.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "list passwords failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	out := make([]vaultEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, vaultEntryResponse{
			ID:                e.ID,
			Website:           e.Website,
			Username:          e.Username,
			EncryptedPassword: e.EncryptedPassword,
			IV:                e.IV,
			Salt:              e.Salt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req vaultEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry := &models.VaultEntry{
		ID:                id,
		Website:           req.Website,
		Username:          req.Username,
		EncryptedPassword: req.EncryptedPassword,
		IV:                req.IV,
		Salt:              req.Salt,
	}
	if err := s.vaultService.Update(r.Context(), user.ID, entry); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Password not found")
			return
		}
		s.logger.Error(r.Context(), "update password failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully."})
}

func (s *Server) handleDeletePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.vaultService.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Password not found")
			return
		}
		s.logger.Error(r.Context(), "delete password failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password deleted"})
}

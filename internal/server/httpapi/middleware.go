package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/server/auth"
	"github.com/passvault/passvault/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// requireUser authenticates the bearer access token and resolves the user it
// names. Missing or invalid tokens (including valid tokens of another type)
// are 401; a token naming an unknown user is 404.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, err := s.codec.Verify(token)
		if err != nil || claims.TokenType != auth.TypeAccess {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := s.authService.GetUserByEmail(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			s.logger.Error(r.Context(), "user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/server/auth"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

type ctxKey string

const (
	accountIDKey ctxKey = "accountID"
	roleKey      ctxKey = "role"
)

// withAuth verifies the bearer token and stores the account identity and
// role in the request context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, claims.AccountID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func accountIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}

func roleFromContext(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleKey).(models.Role)
	return role
}

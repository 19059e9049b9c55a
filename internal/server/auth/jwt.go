// Package auth validates the access tokens the external auth service issues.
// The engine only reads two claims from them: the account identity and the
// membership role used to gate member-only features.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

// Claims carries the registered JWT claims plus the account identity and
// membership role.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string      `json:"account_id"`
	Role      models.Role `json:"role"`
}

// GenerateToken mints an HS256 access token. Outside of tests this is the
// auth collaborator's job; the engine only verifies.
func GenerateToken(accountID string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
		Role:      role,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

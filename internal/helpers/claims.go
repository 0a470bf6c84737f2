package helpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coralcreek/resort-api/internal/apperr"
)

// SessionClaims is what gets signed into a session token: the caller
// identity every other component gates on.
type SessionClaims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionTTL matches the 7-day expiry the frontend expects.
const SessionTTL = 7 * 24 * time.Hour

// IssueToken signs an HS256 session token embedding the user id and
// admin flag.
func IssueToken(secret, userID string, isAdmin bool) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperr.Wrap(apperr.Dependency, "token_signing_failed", "failed to sign session token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token. It fails closed on
// anything other than a valid, unexpired HS256 token signed with secret.
func ValidateToken(secret, tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Auth, "invalid_token", "invalid or expired token", err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperr.New(apperr.Auth, "invalid_token", "invalid or expired token")
	}
	return claims, nil
}

package usecase

import (
	"fmt"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 24 * time.Hour

// signSessionJWT mints the HS256 session token carried by every
// authenticated request. Both interactive login and QR redemption end here.
func signSessionJWT(key []byte, ttl time.Duration, user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

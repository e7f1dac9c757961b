package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret string
	tokenTTL  time.Duration
	guestTTL  time.Duration
)

// Init wires the signing secret and token lifetimes. Must be called before
// any token is issued or verified.
func Init(secret string, token time.Duration, guest time.Duration) error {
	if secret == "" {
		return fmt.Errorf("JWT secret is not set")
	}

	jwtSecret = secret
	tokenTTL = token
	guestTTL = guest

	return nil
}

func GenerateJWT(userID uint, email string) (string, error) {
	return generate(userID, email, tokenTTL)
}

// GenerateGuestJWT issues a short-lived token. Guest accounts are purged
// after their TTL, so their tokens must not outlive them.
func GenerateGuestJWT(userID uint, email string) (string, error) {
	return generate(userID, email, guestTTL)
}

func generate(userID uint, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	return token, nil
}

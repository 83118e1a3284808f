package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"taplink-service/pkg/config"
)

// JWT signs and verifies session tokens with the configured HMAC key.
type JWT struct {
	config *config.JWTConfig
}

// New creates a JWT utility with the given configuration
func New(cfg *config.JWTConfig) *JWT {
	return &JWT{config: cfg}
}

// Mint creates a signed session token. The empresa id is written as an
// integer claim at mint time; claims resolution downstream depends on it
// never being left as an ambiguous type.
func (j *JWT) Mint(subject string, email string, role string, empresaID int64) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        subject,
		"email":      email,
		"rol":        role,
		"empresa_id": empresaID,
		"iat":        jwt.NewNumericDate(now),
		"exp":        jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// Verify checks the token signature and validity window and returns the
// decoded claims payload. Type normalization of individual claims is the
// resolver's job, not this package's.
func (j *JWT) Verify(tokenString string) (jwt.Claims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token.Claims, nil
}

package utils

import (
	"errors" // Error construction
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrMissingSubject is returned for a valid token without a subject
var ErrMissingSubject = errors.New("token has no subject")

// GenerateJWT creates a token for an external identity. The identity provider
// mints the real tokens; this signs the same shape for tooling and tests.
func GenerateJWT(externalID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Standard claims, subject carries the external identity
	claims := jwt.RegisteredClaims{
		Subject:   externalID,                       // External identity
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
		IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT validates an HS256 token and returns its subject
func ParseJWT(tokenStr, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return "", err // Return error if parsing fails
	}
	if !token.Valid {
		return "", jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject // A token must name who it is for
	}
	return claims.Subject, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"skyreserve/backend/internal/constants"
)

// TokenIssuer signs and validates the HS256 session tokens handed out at
// login. The presentation layer stores the token; every API call presents
// it as a bearer credential.
type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenIssuer(secretKey []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secretKey: secretKey, ttl: ttl}
}

type sessionClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Airline string `json:"airline,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given identity.
func (t *TokenIssuer) Issue(email string, role constants.Role, airline string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:   email,
		Role:    string(role),
		Airline: airline,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a bearer token and returns the identity it carries.
func (t *TokenIssuer) Validate(tokenString string) (UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &TokenClaims{
		EmailValue:   claims.Email,
		RoleValue:    constants.Role(claims.Role),
		AirlineValue: claims.Airline,
	}, nil
}

package auth

import "skyreserve/backend/internal/constants"

// UserClaims is the authenticated identity resolved by the auth
// middleware before any workflow runs. Customers and booking agents are
// fully described by their role; airline staff additionally carry their
// airline. Staff capabilities are NOT part of the claims: they are
// permission rows checked against the database at request time.
type UserClaims interface {
	Email() string
	Role() constants.Role
	Airline() string
	Source() string
}

// TokenClaims is the identity carried inside a signed session token.
type TokenClaims struct {
	EmailValue   string
	RoleValue    constants.Role
	AirlineValue string
}

func (c *TokenClaims) Email() string        { return c.EmailValue }
func (c *TokenClaims) Role() constants.Role { return c.RoleValue }
func (c *TokenClaims) Airline() string      { return c.AirlineValue }
func (c *TokenClaims) Source() string       { return "JWT" }

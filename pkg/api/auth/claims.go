// Package auth provides JWT authentication for the vaultden API.
package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaultden/vaultden/pkg/vault/acl"
)

// TokenType indicates whether a token is an access token or refresh token.
type TokenType string

const (
	// TokenTypeAccess is a short-lived token used for API authorization.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is a long-lived token used to obtain new access tokens.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents JWT claims for vaultden authentication.
//
// The subject is the stable user id; the email and roles ride along so
// access checks can resolve principals without a user database lookup.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the unique identifier for the user.
	UserID string `json:"uid"`

	// Email is the user's email address.
	Email string `json:"email,omitempty"`

	// Roles are the role names carried by the token.
	Roles []string `json:"roles,omitempty"`

	// TokenType indicates whether this is an access or refresh token.
	TokenType TokenType `json:"token_type"`
}

// IsAccessToken returns true if this is an access token.
func (c *Claims) IsAccessToken() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefreshToken returns true if this is a refresh token.
func (c *Claims) IsRefreshToken() bool {
	return c.TokenType == TokenTypeRefresh
}

// IsAdmin returns true if the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return slices.Contains(c.Roles, acl.RoleAdmin)
}

// HasRole returns true if the token carries the given role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Identity converts the claims to the identity used by access checks.
func (c *Claims) Identity() acl.Identity {
	return acl.Identity{
		Sub:   c.UserID,
		Email: c.Email,
		Roles: c.Roles,
	}
}

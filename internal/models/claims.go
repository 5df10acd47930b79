package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// HasRole checks the claims against the role hierarchy.
func (c *UserClaims) HasRole(role Role) bool {
	for _, r := range c.Role.Implied() {
		if r == role {
			return true
		}
	}
	return false
}

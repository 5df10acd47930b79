package models

import (
	"gorm.io/gorm"
)

// Role is the authorization role carried by a user and their tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Implied expands the role hierarchy: ADMIN > USER.
func (r Role) Implied() []Role {
	switch r {
	case RoleAdmin:
		return []Role{RoleAdmin, RoleUser}
	case RoleUser:
		return []Role{RoleUser}
	default:
		return nil
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	TokenVersion int       `gorm:"default:1" json:"-"`
	Accounts     []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"accounts,omitempty"`
}

// RegisterUserInput is the registration payload.
type RegisterUserInput struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=5"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

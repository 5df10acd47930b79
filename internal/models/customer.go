package models

import "time"

type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Accounts  []Account `gorm:"foreignKey:CustomerID" json:"accounts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type AddCustomerAccountInput struct {
	CustomerID uint `json:"customer_id" validate:"required"`
}

type RemoveCustomerAccountInput struct {
	CustomerID uint `json:"customer_id" validate:"required"`
	AccountID  uint `json:"account_id" validate:"required"`
}

// OwnedBy reports whether the customer record belongs to the user.
func (c *Customer) OwnedBy(userID uint) bool {
	return c != nil && c.UserID == userID
}

// Package errors defines the domain error taxonomy shared by the services and
// the HTTP layer. Errors carry a stable Code for matching and a Message for
// callers and the audit trail.
package errors

import (
	"errors"
	"fmt"
)

// DomainError is a business-rule or lookup failure. Two DomainErrors match under
// errors.Is when their codes are equal, so constructed errors carrying ids still
// match the exported sentinels.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeCardNotFound          = "CARD_NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeSameAccount           = "SAME_ACCOUNT"
	CodeCardAlreadyPresent    = "CARD_ALREADY_PRESENT"
	CodeAccessDenied          = "ACCESS_DENIED"
	CodeInvalidAmount         = "INVALID_AMOUNT"
	CodeUsernameAlreadyExists = "USERNAME_ALREADY_EXISTS"
)

var (
	ErrAccountNotFound = &DomainError{
		Code:    CodeAccountNotFound,
		Message: "account not found",
	}
	ErrCardNotFound = &DomainError{
		Code:    CodeCardNotFound,
		Message: "card not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    CodeUserNotFound,
		Message: "user not found",
	}
	ErrCustomerNotFound = &DomainError{
		Code:    CodeCustomerNotFound,
		Message: "customer not found",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    CodeInsufficientFunds,
		Message: "insufficient balance",
	}
	ErrSameAccount = &DomainError{
		Code:    CodeSameAccount,
		Message: "can not transfer to the same account",
	}
	ErrCardAlreadyPresent = &DomainError{
		Code:    CodeCardAlreadyPresent,
		Message: "account already has a card",
	}
	ErrAccessDenied = &DomainError{
		Code:    CodeAccessDenied,
		Message: "access denied",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "invalid amount",
	}
	ErrUsernameAlreadyExists = &DomainError{
		Code:    CodeUsernameAlreadyExists,
		Message: "username already exists",
	}
)

func AccountNotFound(id uint) error {
	return &DomainError{Code: CodeAccountNotFound, Message: fmt.Sprintf("Could not find Account with id: %d", id)}
}

func CardNotFound(id uint) error {
	return &DomainError{Code: CodeCardNotFound, Message: fmt.Sprintf("Could not find Card with id: %d", id)}
}

func UserNotFound(id uint) error {
	return &DomainError{Code: CodeUserNotFound, Message: fmt.Sprintf("Could not find User with id: %d", id)}
}

func CustomerNotFound(id uint) error {
	return &DomainError{Code: CodeCustomerNotFound, Message: fmt.Sprintf("Could not find Customer with id: %d", id)}
}

// InsufficientFunds reports the balance and the requested nominal amount.
func InsufficientFunds(accountID uint, balance, amount fmt.Stringer) error {
	return &DomainError{
		Code:    CodeInsufficientFunds,
		Message: fmt.Sprintf("Insufficient balance on account: %d Balance: %s amount: %s", accountID, balance, amount),
	}
}

func SameAccount(id uint) error {
	return &DomainError{Code: CodeSameAccount, Message: fmt.Sprintf("Can not transfer to the same account, id: %d", id)}
}

func CardAlreadyPresent(accountID uint) error {
	return &DomainError{Code: CodeCardAlreadyPresent, Message: fmt.Sprintf("There is already a card linked to account with id %d", accountID)}
}

// AccessDenied builds the denial for action on the entity with the given id,
// e.g. AccessDenied("withdraw from account", 1).
func AccessDenied(action string, id uint) error {
	return &DomainError{Code: CodeAccessDenied, Message: fmt.Sprintf("User lacks permission to %s: %d", action, id)}
}

func InvalidAmount(amount fmt.Stringer) error {
	return &DomainError{Code: CodeInvalidAmount, Message: fmt.Sprintf("Amount must be positive, got: %s", amount)}
}

func UsernameAlreadyExists(username string) error {
	return &DomainError{Code: CodeUsernameAlreadyExists, Message: fmt.Sprintf("Username %s already exists.", username)}
}

// Code extracts the DomainError code from err, or "" for infrastructure errors.
func Code(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"account", AccountNotFound(7), ErrAccountNotFound},
		{"card", CardNotFound(3), ErrCardNotFound},
		{"user", UserNotFound(1), ErrUserNotFound},
		{"customer", CustomerNotFound(2), ErrCustomerNotFound},
		{"funds", InsufficientFunds(1, decimal.NewFromInt(10), decimal.NewFromInt(20)), ErrInsufficientFunds},
		{"same", SameAccount(4), ErrSameAccount},
		{"card present", CardAlreadyPresent(5), ErrCardAlreadyPresent},
		{"denied", AccessDenied("delete account", 6), ErrAccessDenied},
		{"amount", InvalidAmount(decimal.Zero), ErrInvalidAmount},
		{"username taken", UsernameAlreadyExists("alice"), ErrUsernameAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}
}

func TestDomainError_DistinctCodesDoNotMatch(t *testing.T) {
	assert.NotErrorIs(t, AccountNotFound(1), ErrCardNotFound)
	assert.NotErrorIs(t, SameAccount(1), ErrAccessDenied)
	assert.NotErrorIs(t, errors.New("Could not find Account with id: 1"), ErrAccountNotFound)
}

func TestDomainError_ErrorsAs(t *testing.T) {
	var de *DomainError
	if assert.ErrorAs(t, fmt.Errorf("op: %w", CardAlreadyPresent(9)), &de) {
		assert.Equal(t, CodeCardAlreadyPresent, de.Code)
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Could not find Account with id: 42", AccountNotFound(42).Error())
	assert.Equal(t, "Can not transfer to the same account, id: 1", SameAccount(1).Error())
	assert.Equal(t, "User lacks permission to withdraw from account: 1", AccessDenied("withdraw from account", 1).Error())
	assert.Equal(t,
		"Insufficient balance on account: 1 Balance: 100 amount: 150.5",
		InsufficientFunds(1, decimal.NewFromInt(100), decimal.RequireFromString("150.5")).Error(),
	)
	assert.Equal(t, "Username alice already exists.", UsernameAlreadyExists("alice").Error())
}

func TestCode(t *testing.T) {
	assert.Equal(t, CodeCardNotFound, Code(fmt.Errorf("lookup: %w", CardNotFound(1))))
	assert.Equal(t, "", Code(errors.New("connection refused")))
	assert.Equal(t, "", Code(nil))
}

// Package validation collects field errors for request payloads. Struct tags are
// checked with go-playground/validator; the remaining rules are methods on
// Validator.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"bankaccount/internal/models"
)

const (
	MinPasswordLength = 5
	// bcrypt ignores anything past 72 bytes.
	MaxPasswordLength = 72
)

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error for a field.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Error renders the field errors in field order.
func (v *Validator) Error() string {
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, v.Errors[f])
	}
	return strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when there is nothing to report.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return v
}

// MaxLength checks if a string has at most n bytes
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Password enforces the length bounds only; strength rules are not part of
// registration.
func (v *Validator) Password(field, password string) {
	v.Check(len(password) >= MinPasswordLength, field, fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	v.MaxLength(field, password, MaxPasswordLength)
}

// CardType parses a card type name, recording an error on failure.
func (v *Validator) CardType(field, value string) models.CardType {
	t, err := models.ParseCardType(value)
	v.Check(err == nil, field, "must be DEBIT or CREDIT")
	return t
}

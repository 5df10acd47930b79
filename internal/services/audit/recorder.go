// Package audit records one AuditPost per money-movement call and serves the
// audit trail to administrators.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/services/authz"
)

// Operation names written to the trail.
const (
	OpAccountWithdrawal = "accountWithdrawal"
	OpAccountTransfer   = "accountTransfer"
	OpCardWithdrawal    = "cardWithdrawal"
	OpCardTransfer      = "cardTransfer"
)

// Arg is one named argument of an audited call.
type Arg struct {
	Name  string
	Value any
}

// Recorder appends audit posts after the wrapped call has resolved.
type Recorder struct {
	repo   repositories.AuditRepository
	logger *slog.Logger
}

func NewRecorder(repo repositories.AuditRepository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger.With("component", "audit")}
}

// Record runs fn and appends a post attributed to actor with the outcome. The
// error from fn is returned unchanged. A failed append is logged and does not
// affect the caller.
func (r *Recorder) Record(ctx context.Context, actor authz.Actor, operation string, args []Arg, fn func() error) error {
	err := fn()

	result := models.AuditResultOk
	if err != nil {
		result = err.Error()
	}

	post := &models.AuditPost{
		UserID:     actor.UserID,
		Operation:  operation,
		Parameters: FormatArgs(args),
		Result:     result,
	}
	// The post must land even when the request context was cancelled mid-call.
	if appendErr := r.repo.Append(context.WithoutCancel(ctx), post); appendErr != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"operation", operation,
			"actor_id", actor.UserID,
			"error", appendErr,
		)
	}

	return err
}

// FormatArgs renders args as "name=value, name=value" in declaration order.
func FormatArgs(args []Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s=%v", a.Name, a.Value)
	}
	return strings.Join(parts, ", ")
}

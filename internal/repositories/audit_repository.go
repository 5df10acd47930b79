package repositories

import (
	"context"

	"bankaccount/internal/models"
)

// AuditRepository is append-only: posts are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, post *models.AuditPost) error
	List(ctx context.Context, offset, limit int) ([]*models.AuditPost, int64, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.AuditPost, error)
}

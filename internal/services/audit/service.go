package audit

import (
	"context"

	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
)

// Service reads the audit trail. Access is restricted to admins at the route
// level.
type Service interface {
	List(ctx context.Context, offset, limit int) ([]*models.AuditPost, int64, error)
	// ListForUser fails with UserNotFound for an unknown user id.
	ListForUser(ctx context.Context, userID uint) ([]*models.AuditPost, error)
}

type service struct {
	store repositories.LedgerStore
}

func NewService(store repositories.LedgerStore) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, offset, limit int) ([]*models.AuditPost, int64, error) {
	return s.store.Audit().List(ctx, offset, limit)
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]*models.AuditPost, error) {
	exists, err := s.store.Users().ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.UserNotFound(userID)
	}

	posts, err := s.store.Audit().ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.AuditPost{}
	}
	return posts, nil
}

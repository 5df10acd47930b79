package repositories

import (
	"context"
	"fmt"

	"bankaccount/internal/models"

	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Append(ctx context.Context, post *models.AuditPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to append audit post: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, offset, limit int) ([]*models.AuditPost, int64, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, ErrInvalidPage
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AuditPost{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit posts: %w", err)
	}

	var posts []*models.AuditPost
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit posts: %w", err)
	}
	return posts, total, nil
}

func (r *auditRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.AuditPost, error) {
	var posts []*models.AuditPost
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list user audit posts: %w", err)
	}
	return posts, nil
}

package notification

import (
	"context"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
)

// Service lists and marks the persisted in-app notifications. Writing them
// happens at the earning/withdrawal call sites.
type Service interface {
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID uint, id string) error
}

type service struct {
	repo repositories.NotificationRepository
}

func NewService(repo repositories.NotificationRepository) Service {
	if repo == nil {
		panic("notification repository is required")
	}
	return &service{repo: repo}
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *service) MarkRead(ctx context.Context, userID uint, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

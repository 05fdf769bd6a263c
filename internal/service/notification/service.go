package notification

import (
	"context"

	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/repository"
)

// Service exposes the persisted notification records. These are the
// audit-style rows written on workflow side effects; the live dropdown
// feed lives in the feed package and never touches this table.
type Service interface {
	Create(ctx context.Context, notif *domain.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
}

func NewService(notifRepo repository.NotificationRepository) Service {
	return &service{notifRepo: notifRepo}
}

func (s *service) Create(ctx context.Context, notif *domain.Notification) error {
	return s.notifRepo.Create(ctx, notif)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	// MarkAsRead is scoped to the owner so one user cannot consume
	// another user's notification.
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Message,
		notif.EntityType, notif.EntityID, notif.Data,
	).Scan(&notif.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := ` WHERE user_id = $1`
	if unreadOnly {
		where += ` AND is_read = false`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications`+where, userID); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := `SELECT * FROM notifications` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE id = $1 AND user_id = $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

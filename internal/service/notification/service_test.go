package notification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/mocks"
	"gharbazaar/internal/service/notification"
)

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	notifID := uuid.New()
	userID := uuid.New()

	t.Run("Forwards The Owner Scope", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(notifRepo)

		notifRepo.On("MarkAsRead", ctx, notifID, userID).Return(nil).Once()

		err := svc.MarkAsRead(ctx, notifID, userID)

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
		notifRepo.AssertNotCalled(t, "MarkAsRead", ctx, notifID, mock.MatchedBy(func(u uuid.UUID) bool {
			return u != userID
		}))
	})

	t.Run("Repository Error Propagates", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(notifRepo)

		notifRepo.On("MarkAsRead", ctx, notifID, userID).Return(assert.AnError).Once()

		assert.Error(t, svc.MarkAsRead(ctx, notifID, userID))
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	params := domain.DefaultPagination()

	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo)

	notifRepo.On("ListByUser", ctx, userID, true, params).Return([]domain.Notification{
		{ID: uuid.New(), Title: "Assignment Accepted"},
	}, int64(1), nil).Once()

	result, err := svc.List(ctx, userID, true, params)

	assert.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, int64(1), result.TotalItems)
}

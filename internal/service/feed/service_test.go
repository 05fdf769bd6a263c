package feed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/realtime"
)

func TestService_OpenWithoutProperties(t *testing.T) {
	ctx := context.Background()
	repos, inquiryRepo, bookingRepo, propertyRepo, _ := testRepos()
	userID := uuid.New()

	propertyRepo.On("ListIDsByOwner", ctx, userID).Return(nil, nil).Once()
	inquiryRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(nil, nil).Once()
	bookingRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(nil, nil).Once()

	svc := NewService(nil, repos)
	listener := svc.Open(ctx, userID)

	items, unread := listener.Snapshot()
	assert.Empty(t, items)
	assert.Equal(t, 0, unread)
	// No properties means no subscription was taken out.
	assert.Nil(t, listener.releaseSubs)

	assert.NotPanics(t, func() { svc.Close(listener.ID, userID) })
}

func TestService_SessionRegistry(t *testing.T) {
	ctx := context.Background()
	repos, inquiryRepo, bookingRepo, propertyRepo, _ := testRepos()
	userID := uuid.New()
	otherUser := uuid.New()

	propertyRepo.On("ListIDsByOwner", ctx, userID).Return(nil, nil)
	inquiryRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(nil, nil)
	bookingRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(nil, nil)

	svc := NewService(nil, repos)
	listener := svc.Open(ctx, userID)

	t.Run("Owner Can Fetch", func(t *testing.T) {
		got, ok := svc.Get(listener.ID, userID)
		assert.True(t, ok)
		assert.Equal(t, listener, got)
	})

	t.Run("Another User Cannot", func(t *testing.T) {
		_, ok := svc.Get(listener.ID, otherUser)
		assert.False(t, ok)
	})

	t.Run("Close By Another User Is Ignored", func(t *testing.T) {
		svc.Close(listener.ID, otherUser)
		_, ok := svc.Get(listener.ID, userID)
		assert.True(t, ok)
	})

	t.Run("Close Removes The Session", func(t *testing.T) {
		svc.Close(listener.ID, userID)
		_, ok := svc.Get(listener.ID, userID)
		assert.False(t, ok)

		select {
		case <-listener.Done():
		default:
			t.Fatal("closing the session should tear the listener down")
		}
	})
}

func TestService_HandleEventFiltering(t *testing.T) {
	repos, inquiryRepo, bookingRepo, propertyRepo, userRepo := testRepos()
	svc := NewService(nil, repos)

	mine := uuid.New()
	listener := newListener(uuid.New(), []uuid.UUID{mine}, repos)

	t.Run("Foreign Property Events Are Dropped", func(t *testing.T) {
		svc.handleInquiry(listener, realtime.InquiryEvent{ID: uuid.New(), PropertyID: uuid.New()})
		svc.handleBooking(listener, realtime.BookingEvent{ID: uuid.New(), PropertyID: uuid.New()})

		items, _ := listener.Snapshot()
		assert.Empty(t, items)
		inquiryRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Owned Property Events Are Enriched And Added", func(t *testing.T) {
		inquiryID := uuid.New()
		inquiryRepo.On("GetByID", mock.Anything, inquiryID).Return(&domain.Inquiry{
			ID: inquiryID, PropertyID: mine, Name: "Ravi",
		}, nil).Once()
		propertyRepo.On("GetByID", mock.Anything, mine).Return(&domain.Property{ID: mine, Title: "Hill Villa"}, nil)

		svc.handleInquiry(listener, realtime.InquiryEvent{ID: inquiryID, PropertyID: mine})

		items, unread := listener.Snapshot()
		assert.Len(t, items, 1)
		assert.Equal(t, 1, unread)
		assert.Equal(t, "inquiry-"+inquiryID.String(), items[0].ID)

		bookingID := uuid.New()
		bookingRepo.On("GetByID", mock.Anything, bookingID).Return(&domain.Booking{
			ID: bookingID, PropertyID: mine, UserID: uuid.New(),
		}, nil).Once()
		userRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

		svc.handleBooking(listener, realtime.BookingEvent{ID: bookingID, PropertyID: mine})

		items, unread = listener.Snapshot()
		assert.Len(t, items, 2)
		assert.Equal(t, 2, unread)
	})
}

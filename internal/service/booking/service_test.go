package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/mocks"
	"gharbazaar/internal/service/booking"
)

type bookingMocks struct {
	bookingRepo  *mocks.BookingRepository
	propertyRepo *mocks.PropertyRepository
	userRepo     *mocks.UserRepository
	notifRepo    *mocks.NotificationRepository
	publisher    *mocks.Publisher
	emailSvc     *mocks.EmailService
}

func newBookingService() (booking.Service, *bookingMocks) {
	m := &bookingMocks{
		bookingRepo:  new(mocks.BookingRepository),
		propertyRepo: new(mocks.PropertyRepository),
		userRepo:     new(mocks.UserRepository),
		notifRepo:    new(mocks.NotificationRepository),
		publisher:    new(mocks.Publisher),
		emailSvc:     new(mocks.EmailService),
	}
	svc := booking.NewService(m.bookingRepo, m.propertyRepo, m.userRepo, m.notifRepo, m.publisher, m.emailSvc)
	return svc, m
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	user := &domain.User{ID: uuid.New(), Role: "buyer"}

	t.Run("Success Publishes Event", func(t *testing.T) {
		svc, m := newBookingService()

		m.propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID}, nil).Once()
		m.bookingRepo.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.PropertyID == propertyID && b.UserID == user.ID && b.Status == domain.BookingPending
		})).Return(nil).Once()
		m.publisher.On("PublishBooking", ctx, mock.Anything).Return(nil).Once()

		created, err := svc.Create(ctx, user, domain.CreateBookingInput{
			PropertyID:  propertyID,
			BookingDate: time.Now().Add(48 * time.Hour),
			BookingTime: "14:00",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		m.publisher.AssertExpectations(t)
	})

	t.Run("Property Not Found", func(t *testing.T) {
		svc, m := newBookingService()

		m.propertyRepo.On("GetByID", ctx, propertyID).Return(nil, nil).Once()

		created, err := svc.Create(ctx, user, domain.CreateBookingInput{PropertyID: propertyID, BookingTime: "14:00"})

		assert.ErrorIs(t, err, booking.ErrPropertyNotFound)
		assert.Nil(t, created)
	})
}

func TestBookingService_ListReceived(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("Returns Owner Bookings Enriched With Property", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookingRepo.On("ListByOwner", ctx, ownerID).Return([]domain.Booking{
			{ID: uuid.New(), PropertyID: propertyID, BookingTime: "14:00"},
		}, nil).Once()
		m.propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID, Title: "Lake House"}, nil).Once()

		bookings, err := svc.ListReceived(ctx, ownerID)

		assert.NoError(t, err)
		assert.Len(t, bookings, 1)
		assert.NotNil(t, bookings[0].Property)
		assert.Equal(t, "Lake House", bookings[0].Property.Title)
	})

	t.Run("Repository Error Propagates", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookingRepo.On("ListByOwner", ctx, ownerID).Return(nil, assert.AnError).Once()

		bookings, err := svc.ListReceived(ctx, ownerID)

		assert.Error(t, err)
		assert.Nil(t, bookings)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New()
	propertyID := uuid.New()
	ownerID := uuid.New()
	user := &domain.User{ID: uuid.New(), Role: "buyer"}

	existing := func() *domain.Booking {
		return &domain.Booking{ID: bookingID, PropertyID: propertyID, UserID: user.ID, Status: domain.BookingPending}
	}

	t.Run("Owner Of Booking Can Cancel And Owner Of Property Is Notified", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookingRepo.On("GetByID", ctx, bookingID).Return(existing(), nil).Once()
		m.bookingRepo.On("UpdateStatus", ctx, bookingID, domain.BookingCancelled).Return(nil).Once()
		m.propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID, OwnerID: ownerID, Title: "Lake House"}, nil).Once()
		m.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Title == "Booking Cancelled" && *n.UserID == ownerID && n.EntityType == "booking"
		})).Return(nil).Once()
		m.userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, Email: "owner@example.com"}, nil).Once()
		m.emailSvc.On("SendBookingCancelled", mock.Anything, "owner@example.com", mock.Anything, "Lake House").Return(nil).Maybe()

		err := svc.Cancel(ctx, user, bookingID)

		assert.NoError(t, err)
		m.bookingRepo.AssertExpectations(t)
		m.notifRepo.AssertExpectations(t)
	})

	t.Run("Admin Can Cancel Any Booking", func(t *testing.T) {
		svc, m := newBookingService()
		admin := &domain.User{ID: uuid.New(), Role: "admin"}

		m.bookingRepo.On("GetByID", ctx, bookingID).Return(existing(), nil).Once()
		m.bookingRepo.On("UpdateStatus", ctx, bookingID, domain.BookingCancelled).Return(nil).Once()
		m.propertyRepo.On("GetByID", ctx, propertyID).Return(nil, nil).Once()

		err := svc.Cancel(ctx, admin, bookingID)

		assert.NoError(t, err)
	})

	t.Run("Stranger Cannot Cancel", func(t *testing.T) {
		svc, m := newBookingService()
		stranger := &domain.User{ID: uuid.New(), Role: "buyer"}

		m.bookingRepo.On("GetByID", ctx, bookingID).Return(existing(), nil).Once()

		err := svc.Cancel(ctx, stranger, bookingID)

		assert.ErrorIs(t, err, booking.ErrNotYours)
		m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookingRepo.On("GetByID", ctx, bookingID).Return(nil, nil).Once()

		err := svc.Cancel(ctx, user, bookingID)

		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

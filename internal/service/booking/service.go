package booking

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/realtime"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service/email"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotFound         = errors.New("booking not found")
	ErrNotYours         = errors.New("booking belongs to another user")
)

type Service interface {
	Create(ctx context.Context, user *domain.User, input domain.CreateBookingInput) (*domain.Booking, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	// ListReceived returns bookings against properties the user owns.
	ListReceived(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error)
	// Cancel flips the booking to cancelled and leaves an audit
	// notification for the property owner.
	Cancel(ctx context.Context, user *domain.User, id uuid.UUID) error
}

type service struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	notifRepo    repository.NotificationRepository
	publisher    realtime.Publisher
	emailSvc     email.Service
}

func NewService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	publisher realtime.Publisher,
	emailSvc email.Service,
) Service {
	return &service{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		notifRepo:    notifRepo,
		publisher:    publisher,
		emailSvc:     emailSvc,
	}
}

func (s *service) Create(ctx context.Context, user *domain.User, input domain.CreateBookingInput) (*domain.Booking, error) {
	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	booking := &domain.Booking{
		ID:          uuid.New(),
		PropertyID:  property.ID,
		UserID:      user.ID,
		BookingDate: input.BookingDate,
		BookingTime: input.BookingTime,
		Notes:       input.Notes,
		Status:      domain.BookingPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishBooking(ctx, realtime.BookingEvent{
		ID:         booking.ID,
		PropertyID: booking.PropertyID,
		UserID:     booking.UserID,
		CreatedAt:  booking.CreatedAt,
	}); err != nil {
		log.Printf("Failed to publish booking event: %v", err)
	}

	return booking, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProperties(ctx, bookings), nil
}

func (s *service) ListReceived(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withProperties(ctx, bookings), nil
}

func (s *service) withProperties(ctx context.Context, bookings []domain.Booking) []domain.Booking {
	for i := range bookings {
		if property, err := s.propertyRepo.GetByID(ctx, bookings[i].PropertyID); err == nil {
			bookings[i].Property = property
		}
	}
	return bookings
}

func (s *service) Cancel(ctx context.Context, user *domain.User, id uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrNotFound
	}
	if booking.UserID != user.ID && !user.HasRole("admin") {
		return ErrNotYours
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		return err
	}

	s.notifyOwner(ctx, booking)

	return nil
}

func (s *service) notifyOwner(ctx context.Context, booking *domain.Booking) {
	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil || property == nil {
		return
	}

	bookingID := booking.ID
	ownerID := property.OwnerID
	notif := &domain.Notification{
		ID:         uuid.New(),
		UserID:     &ownerID,
		Type:       domain.NotifBooking,
		Title:      "Booking Cancelled",
		Message:    `Your booking for "` + property.Title + `" was cancelled by the customer.`,
		EntityType: "booking",
		EntityID:   &bookingID,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		log.Printf("Failed to record cancellation notification: %v", err)
	}

	owner, err := s.userRepo.GetByID(ctx, property.OwnerID)
	if err != nil || owner == nil {
		return
	}
	go func() {
		if err := s.emailSvc.SendBookingCancelled(context.Background(), owner.Email, owner.FullName(), property.Title); err != nil {
			log.Printf("Failed to send cancellation email: %v", err)
		}
	}()
}

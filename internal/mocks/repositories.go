// Package mocks provides testify doubles for the repository and
// service interfaces used in unit tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
)

type AssignmentRepository struct {
	mock.Mock
}

func (m *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *AssignmentRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error) {
	args := m.Called(ctx, agentID)
	var assignments []domain.Assignment
	if args.Get(0) != nil {
		assignments = args.Get(0).([]domain.Assignment)
	}
	return assignments, args.Error(1)
}

func (m *AssignmentRepository) UpdateResponse(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, notes *string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *AssignmentRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type InquiryRepository struct {
	mock.Mock
}

func (m *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}

func (m *InquiryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error) {
	args := m.Called(ctx, userID)
	var inquiries []domain.Inquiry
	if args.Get(0) != nil {
		inquiries = args.Get(0).([]domain.Inquiry)
	}
	return inquiries, args.Error(1)
}

func (m *InquiryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Inquiry, error) {
	args := m.Called(ctx, ownerID)
	var inquiries []domain.Inquiry
	if args.Get(0) != nil {
		inquiries = args.Get(0).([]domain.Inquiry)
	}
	return inquiries, args.Error(1)
}

func (m *InquiryRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Inquiry, error) {
	args := m.Called(ctx, ownerID, limit)
	var inquiries []domain.Inquiry
	if args.Get(0) != nil {
		inquiries = args.Get(0).([]domain.Inquiry)
	}
	return inquiries, args.Error(1)
}

func (m *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *InquiryRepository) SetAssignedAgent(ctx context.Context, id, agentID uuid.UUID) error {
	args := m.Called(ctx, id, agentID)
	return args.Error(0)
}

func (m *InquiryRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type PropertyRepository struct {
	mock.Mock
}

func (m *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter, params domain.PaginationParams) ([]domain.Property, int64, error) {
	args := m.Called(ctx, filter, params)
	var properties []domain.Property
	if args.Get(0) != nil {
		properties = args.Get(0).([]domain.Property)
	}
	return properties, args.Get(1).(int64), args.Error(2)
}

func (m *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *PropertyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PropertyRepository) AppendImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *PropertyRepository) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerID)
	var ids []uuid.UUID
	if args.Get(0) != nil {
		ids = args.Get(0).([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *PropertyRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type BookingRepository struct {
	mock.Mock
}

func (m *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}

func (m *BookingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}

func (m *BookingRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID, limit)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}

func (m *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *BookingRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	var notifications []domain.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]domain.Notification)
	}
	return notifications, args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/realtime"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendEmailVerification(ctx context.Context, toEmail, name, verificationToken string) error {
	args := m.Called(ctx, toEmail, name, verificationToken)
	return args.Error(0)
}

func (m *EmailService) SendAssignmentOffer(ctx context.Context, toEmail, agentName, propertyTitle, customerName string, assignmentID string, expiresAt time.Time) error {
	args := m.Called(ctx, toEmail, agentName, propertyTitle, customerName, assignmentID, expiresAt)
	return args.Error(0)
}

func (m *EmailService) SendBookingCancelled(ctx context.Context, toEmail, ownerName, propertyTitle string) error {
	args := m.Called(ctx, toEmail, ownerName, propertyTitle)
	return args.Error(0)
}

type AssignmentService struct {
	mock.Mock
}

func (m *AssignmentService) Create(ctx context.Context, input domain.CreateAssignmentInput) (*domain.Assignment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *AssignmentService) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error) {
	args := m.Called(ctx, agentID)
	var assignments []domain.Assignment
	if args.Get(0) != nil {
		assignments = args.Get(0).([]domain.Assignment)
	}
	return assignments, args.Error(1)
}

func (m *AssignmentService) Respond(ctx context.Context, agentID, assignmentID uuid.UUID, input domain.RespondAssignmentInput) error {
	args := m.Called(ctx, agentID, assignmentID, input)
	return args.Error(0)
}

func (m *AssignmentService) ListAgents(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var agents []domain.User
	if args.Get(0) != nil {
		agents = args.Get(0).([]domain.User)
	}
	return agents, args.Error(1)
}

type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishInquiry(ctx context.Context, event realtime.InquiryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Publisher) PublishBooking(ctx context.Context, event realtime.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

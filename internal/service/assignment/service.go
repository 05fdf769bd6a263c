// Package assignment implements the agent-inquiry routing workflow:
// the back office offers an inquiry to an agent, who accepts or
// declines before the offer's deadline.
package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service/email"
)

var (
	ErrNotFound        = errors.New("assignment not found")
	ErrNotYours        = errors.New("assignment belongs to another agent")
	ErrInvalidDecision = errors.New("decision must be accepted or declined")
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrAgentNotFound   = errors.New("agent not found")
)

type Service interface {
	Create(ctx context.Context, input domain.CreateAssignmentInput) (*domain.Assignment, error)
	// ListForAgent returns every assignment for the agent, newest
	// first, each enriched with its inquiry and the inquiry's property.
	ListForAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error)
	// Respond moves the assignment to the given decision. The write is
	// an unconditional overwrite: replaying the same decision is a
	// no-op in effect, and a late deep-link replay against a resolved
	// or expired row still lands.
	Respond(ctx context.Context, agentID, assignmentID uuid.UUID, input domain.RespondAssignmentInput) error
	// ListAgents returns the users the back office can route an
	// inquiry to.
	ListAgents(ctx context.Context) ([]domain.User, error)
}

type service struct {
	assignmentRepo repository.AssignmentRepository
	inquiryRepo    repository.InquiryRepository
	propertyRepo   repository.PropertyRepository
	userRepo       repository.UserRepository
	notifRepo      repository.NotificationRepository
	emailSvc       email.Service
	defaultExpiry  time.Duration
	now            func() time.Time
}

func NewService(
	assignmentRepo repository.AssignmentRepository,
	inquiryRepo repository.InquiryRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	emailSvc email.Service,
	defaultExpiry time.Duration,
) Service {
	return &service{
		assignmentRepo: assignmentRepo,
		inquiryRepo:    inquiryRepo,
		propertyRepo:   propertyRepo,
		userRepo:       userRepo,
		notifRepo:      notifRepo,
		emailSvc:       emailSvc,
		defaultExpiry:  defaultExpiry,
		now:            time.Now,
	}
}

func (s *service) Create(ctx context.Context, input domain.CreateAssignmentInput) (*domain.Assignment, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, input.InquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, ErrInquiryNotFound
	}

	agent, err := s.userRepo.GetByID(ctx, input.AgentID)
	if err != nil {
		return nil, err
	}
	if agent == nil || !agent.HasRole("agent") {
		return nil, ErrAgentNotFound
	}

	expiry := s.defaultExpiry
	if input.ExpiresInHours > 0 {
		expiry = time.Duration(input.ExpiresInHours) * time.Hour
	}

	now := s.now()
	assignment := &domain.Assignment{
		ID:         uuid.New(),
		InquiryID:  inquiry.ID,
		AgentID:    agent.ID,
		Status:     domain.AssignmentPending,
		AssignedAt: now,
		ExpiresAt:  now.Add(expiry),
		Notes:      input.Notes,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	if err := s.inquiryRepo.SetAssignedAgent(ctx, inquiry.ID, agent.ID); err != nil {
		log.Printf("Failed to stamp inquiry %s with assigned agent: %v", inquiry.ID, err)
	}

	s.sendOfferEmail(assignment, agent, inquiry)

	return assignment, nil
}

func (s *service) sendOfferEmail(assignment *domain.Assignment, agent *domain.User, inquiry *domain.Inquiry) {
	propertyTitle := "a property"
	if property, err := s.propertyRepo.GetByID(context.Background(), inquiry.PropertyID); err == nil && property != nil {
		propertyTitle = property.Title
	}

	go func() {
		err := s.emailSvc.SendAssignmentOffer(context.Background(),
			agent.Email, agent.FullName(), propertyTitle, inquiry.Name,
			assignment.ID.String(), assignment.ExpiresAt)
		if err != nil {
			log.Printf("Failed to send assignment offer email: %v", err)
		}
	}()
}

func (s *service) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error) {
	assignments, err := s.assignmentRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		inquiry, err := s.inquiryRepo.GetByID(ctx, assignments[i].InquiryID)
		if err != nil || inquiry == nil {
			if err != nil {
				log.Printf("Failed to load inquiry %s: %v", assignments[i].InquiryID, err)
			}
			continue
		}

		if property, err := s.propertyRepo.GetByID(ctx, inquiry.PropertyID); err == nil {
			inquiry.Property = property
		} else {
			log.Printf("Failed to load property %s: %v", inquiry.PropertyID, err)
		}

		assignments[i].Inquiry = inquiry
	}

	return assignments, nil
}

func (s *service) ListAgents(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleAgent)
}

func (s *service) Respond(ctx context.Context, agentID, assignmentID uuid.UUID, input domain.RespondAssignmentInput) error {
	if !input.Decision.IsValid() {
		return ErrInvalidDecision
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if assignment == nil {
		return ErrNotFound
	}
	if assignment.AgentID != agentID {
		return ErrNotYours
	}

	if err := s.assignmentRepo.UpdateResponse(ctx, assignmentID, input.Decision.Status(), input.Notes); err != nil {
		return err
	}

	if input.Decision == domain.DecisionAccepted {
		s.recordAcceptance(ctx, assignment, agentID)
	}

	return nil
}

// recordAcceptance applies the accept side effects: the inquiry is
// marked responded and an audit notification row is written. Failures
// here do not undo the response itself.
func (s *service) recordAcceptance(ctx context.Context, assignment *domain.Assignment, agentID uuid.UUID) {
	if err := s.inquiryRepo.UpdateStatus(ctx, assignment.InquiryID, domain.InquiryResponded); err != nil {
		log.Printf("Failed to mark inquiry %s responded: %v", assignment.InquiryID, err)
	}

	agentName := "An agent"
	if agent, err := s.userRepo.GetByID(ctx, agentID); err == nil && agent != nil {
		agentName = "Agent " + agent.FullName()
	}

	inquiryID := assignment.InquiryID
	data, _ := json.Marshal(map[string]string{"assignment_id": assignment.ID.String()})

	notif := &domain.Notification{
		ID:         uuid.New(),
		Type:       domain.NotifInquiry,
		Title:      "Assignment Accepted",
		Message:    agentName + " accepted the inquiry assignment",
		EntityType: "inquiry",
		EntityID:   &inquiryID,
		Data:       data,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		log.Printf("Failed to record acceptance notification: %v", err)
	}
}

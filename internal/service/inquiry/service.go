package inquiry

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/realtime"
	"gharbazaar/internal/repository"
)

var ErrPropertyNotFound = errors.New("property not found")

type Service interface {
	Create(ctx context.Context, user *domain.User, input domain.CreateInquiryInput) (*domain.Inquiry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error)
	// ListReceived returns inquiries against properties the user owns.
	ListReceived(ctx context.Context, ownerID uuid.UUID) ([]domain.Inquiry, error)
}

type service struct {
	inquiryRepo  repository.InquiryRepository
	propertyRepo repository.PropertyRepository
	publisher    realtime.Publisher
}

func NewService(inquiryRepo repository.InquiryRepository, propertyRepo repository.PropertyRepository, publisher realtime.Publisher) Service {
	return &service{
		inquiryRepo:  inquiryRepo,
		propertyRepo: propertyRepo,
		publisher:    publisher,
	}
}

func (s *service) Create(ctx context.Context, user *domain.User, input domain.CreateInquiryInput) (*domain.Inquiry, error) {
	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	inquiryType := input.InquiryType
	if inquiryType == "" {
		if property.ListingType == domain.ListingRent {
			inquiryType = "rental"
		} else {
			inquiryType = "purchase"
		}
	}

	phone := ""
	if user.PhoneNumber != nil {
		phone = *user.PhoneNumber
	}

	userID := user.ID
	inquiry := &domain.Inquiry{
		ID:          uuid.New(),
		PropertyID:  property.ID,
		UserID:      &userID,
		Name:        user.FullName(),
		Email:       user.Email,
		Phone:       phone,
		Message:     input.Message,
		InquiryType: inquiryType,
		Status:      domain.InquiryNew,
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	// Live feeds are best-effort: a dropped event only costs a
	// notification, the row is already durable.
	if err := s.publisher.PublishInquiry(ctx, realtime.InquiryEvent{
		ID:         inquiry.ID,
		PropertyID: inquiry.PropertyID,
		Name:       inquiry.Name,
		CreatedAt:  inquiry.CreatedAt,
	}); err != nil {
		log.Printf("Failed to publish inquiry event: %v", err)
	}

	return inquiry, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	return s.inquiryRepo.GetByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error) {
	inquiries, err := s.inquiryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProperties(ctx, inquiries), nil
}

func (s *service) ListReceived(ctx context.Context, ownerID uuid.UUID) ([]domain.Inquiry, error) {
	inquiries, err := s.inquiryRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withProperties(ctx, inquiries), nil
}

func (s *service) withProperties(ctx context.Context, inquiries []domain.Inquiry) []domain.Inquiry {
	for i := range inquiries {
		if property, err := s.propertyRepo.GetByID(ctx, inquiries[i].PropertyID); err == nil {
			inquiries[i].Property = property
		}
	}
	return inquiries
}

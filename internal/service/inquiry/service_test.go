package inquiry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/mocks"
	"gharbazaar/internal/realtime"
	"gharbazaar/internal/service/inquiry"
)

func TestInquiryService_Create(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	phone := "9876543210"
	user := &domain.User{
		ID:          uuid.New(),
		Email:       "ravi@example.com",
		FirstName:   "Ravi",
		LastName:    "Kumar",
		PhoneNumber: &phone,
		Role:        "buyer",
	}

	t.Run("Denormalizes Contact And Publishes Event", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		propertyRepo := new(mocks.PropertyRepository)
		publisher := new(mocks.Publisher)
		svc := inquiry.NewService(inquiryRepo, propertyRepo, publisher)

		propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{
			ID: propertyID, ListingType: domain.ListingSale,
		}, nil).Once()
		inquiryRepo.On("Create", ctx, mock.MatchedBy(func(i *domain.Inquiry) bool {
			return i.Name == "Ravi Kumar" && i.Email == "ravi@example.com" && i.Phone == phone &&
				i.Status == domain.InquiryNew && i.InquiryType == "purchase"
		})).Return(nil).Once()
		publisher.On("PublishInquiry", ctx, mock.MatchedBy(func(e realtime.InquiryEvent) bool {
			return e.PropertyID == propertyID && e.Name == "Ravi Kumar"
		})).Return(nil).Once()

		created, err := svc.Create(ctx, user, domain.CreateInquiryInput{PropertyID: propertyID, Message: "Is this available?"})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		inquiryRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("Rental Listing Defaults To Rental Type", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		propertyRepo := new(mocks.PropertyRepository)
		publisher := new(mocks.Publisher)
		svc := inquiry.NewService(inquiryRepo, propertyRepo, publisher)

		propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{
			ID: propertyID, ListingType: domain.ListingRent,
		}, nil).Once()
		inquiryRepo.On("Create", ctx, mock.MatchedBy(func(i *domain.Inquiry) bool {
			return i.InquiryType == "rental"
		})).Return(nil).Once()
		publisher.On("PublishInquiry", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.Create(ctx, user, domain.CreateInquiryInput{PropertyID: propertyID, Message: "Monthly rent?"})

		assert.NoError(t, err)
	})

	t.Run("Publish Failure Does Not Fail The Create", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		propertyRepo := new(mocks.PropertyRepository)
		publisher := new(mocks.Publisher)
		svc := inquiry.NewService(inquiryRepo, propertyRepo, publisher)

		propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID, ListingType: domain.ListingSale}, nil).Once()
		inquiryRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		publisher.On("PublishInquiry", ctx, mock.Anything).Return(assert.AnError).Once()

		created, err := svc.Create(ctx, user, domain.CreateInquiryInput{PropertyID: propertyID, Message: "Still listed?"})

		assert.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("Property Not Found", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		propertyRepo := new(mocks.PropertyRepository)
		publisher := new(mocks.Publisher)
		svc := inquiry.NewService(inquiryRepo, propertyRepo, publisher)

		propertyRepo.On("GetByID", ctx, propertyID).Return(nil, nil).Once()

		created, err := svc.Create(ctx, user, domain.CreateInquiryInput{PropertyID: propertyID, Message: "Hello"})

		assert.ErrorIs(t, err, inquiry.ErrPropertyNotFound)
		assert.Nil(t, created)
		inquiryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInquiryService_ListReceived(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("Returns Owner Inquiries Enriched With Property", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		propertyRepo := new(mocks.PropertyRepository)
		svc := inquiry.NewService(inquiryRepo, propertyRepo, new(mocks.Publisher))

		inquiryRepo.On("ListByOwner", ctx, ownerID).Return([]domain.Inquiry{
			{ID: uuid.New(), PropertyID: propertyID, Name: "Ravi Kumar"},
		}, nil).Once()
		propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID, Title: "Lake House"}, nil).Once()

		inquiries, err := svc.ListReceived(ctx, ownerID)

		assert.NoError(t, err)
		assert.Len(t, inquiries, 1)
		assert.NotNil(t, inquiries[0].Property)
		assert.Equal(t, "Lake House", inquiries[0].Property.Title)
	})

	t.Run("Repository Error Propagates", func(t *testing.T) {
		inquiryRepo := new(mocks.InquiryRepository)
		svc := inquiry.NewService(inquiryRepo, new(mocks.PropertyRepository), new(mocks.Publisher))

		inquiryRepo.On("ListByOwner", ctx, ownerID).Return(nil, assert.AnError).Once()

		inquiries, err := svc.ListReceived(ctx, ownerID)

		assert.Error(t, err)
		assert.Nil(t, inquiries)
	})
}

package property

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"gharbazaar/internal/config"
	"gharbazaar/internal/domain"
	"gharbazaar/internal/repository"
)

var (
	ErrNotFound  = errors.New("property not found")
	ErrNotOwner  = errors.New("property belongs to another user")
	ErrNoStorage = errors.New("media storage is not configured")
)

type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input domain.CreatePropertyInput) (*domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context, filter domain.PropertyFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Property], error)
	Update(ctx context.Context, user *domain.User, id uuid.UUID, input domain.UpdatePropertyInput) (*domain.Property, error)
	Delete(ctx context.Context, user *domain.User, id uuid.UUID) error
	// UploadImage stores an image in the object store and appends its
	// public URL to the property's image list.
	UploadImage(ctx context.Context, user *domain.User, id uuid.UUID, fileName, contentType string, fileSize int64, reader io.Reader) (string, error)
}

type service struct {
	propertyRepo repository.PropertyRepository
	minioClient  *minio.Client
	cfg          *config.Config
}

func NewService(propertyRepo repository.PropertyRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		propertyRepo: propertyRepo,
		minioClient:  minioClient,
		cfg:          cfg,
	}
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input domain.CreatePropertyInput) (*domain.Property, error) {
	if !input.ListingType.IsValid() {
		return nil, errors.New("listing_type must be SALE or RENT")
	}

	property := &domain.Property{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        input.Title,
		Description:  input.Description,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		Price:        input.Price,
		MonthlyRent:  input.MonthlyRent,
		ListingType:  input.ListingType,
		PropertyType: input.PropertyType,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		AreaSqft:     input.AreaSqft,
		Images:       []string{},
		Status:       domain.PropertyListed,
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrNotFound
	}
	return property, nil
}

func (s *service) List(ctx context.Context, filter domain.PropertyFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Property], error) {
	properties, total, err := s.propertyRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Property]{}, err
	}
	return domain.NewPaginatedResponse(properties, params.Page, params.PageSize, total), nil
}

func (s *service) Update(ctx context.Context, user *domain.User, id uuid.UUID, input domain.UpdatePropertyInput) (*domain.Property, error) {
	property, err := s.authorize(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.Address != nil {
		property.Address = *input.Address
	}
	if input.City != nil {
		property.City = *input.City
	}
	if input.State != nil {
		property.State = *input.State
	}
	if input.Price != nil {
		property.Price = input.Price
	}
	if input.MonthlyRent != nil {
		property.MonthlyRent = input.MonthlyRent
	}
	if input.ListingType != nil {
		property.ListingType = *input.ListingType
	}
	if input.PropertyType != nil {
		property.PropertyType = *input.PropertyType
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.AreaSqft != nil {
		property.AreaSqft = *input.AreaSqft
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, errors.New("invalid property status")
		}
		property.Status = *input.Status
	}
	if input.Featured != nil {
		property.Featured = *input.Featured
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *service) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	if _, err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.propertyRepo.SoftDelete(ctx, id)
}

func (s *service) UploadImage(ctx context.Context, user *domain.User, id uuid.UUID, fileName, contentType string, fileSize int64, reader io.Reader) (string, error) {
	if s.minioClient == nil {
		return "", ErrNoStorage
	}

	if _, err := s.authorize(ctx, user, id); err != nil {
		return "", err
	}

	storagePath := fmt.Sprintf("properties/%s/%s-%s", time.Now().Format("2006/01"), uuid.New().String(), fileName)

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	publicURL := s.publicURL(storagePath)
	if err := s.propertyRepo.AppendImage(ctx, id, publicURL); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return "", err
	}

	return publicURL, nil
}

func (s *service) authorize(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrNotFound
	}
	if property.OwnerID != user.ID && !user.HasRole("admin") {
		return nil, ErrNotOwner
	}
	return property, nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context, filter domain.PropertyFilter, params domain.PaginationParams) ([]domain.Property, int64, error)
	Update(ctx context.Context, property *domain.Property) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AppendImage(ctx context.Context, id uuid.UUID, imageURL string) error
	// ListIDsByOwner returns the ids of every live property owned by
	// the user. The notification feed is scoped to this set.
	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	CountAll(ctx context.Context) (int64, error)
}

type propertyRepository struct {
	db *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, title, description, address, city, state,
			price, monthly_rent, listing_type, property_type, bedrooms, bathrooms, area_sqft, images, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		property.ID, property.OwnerID, property.Title, property.Description,
		property.Address, property.City, property.State,
		property.Price, property.MonthlyRent, property.ListingType, property.PropertyType,
		property.Bedrooms, property.Bathrooms, property.AreaSqft,
		property.Images, property.Status, property.Featured,
	).Scan(&property.CreatedAt, &property.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	query := `SELECT * FROM properties WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &property, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, filter domain.PropertyFilter, params domain.PaginationParams) ([]domain.Property, int64, error) {
	params.Validate()

	where := ` WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filter.ListingType != nil {
		args = append(args, *filter.ListingType)
		where += ` AND listing_type = $` + strconv.Itoa(len(args))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		where += ` AND city = $` + strconv.Itoa(len(args))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += ` AND owner_id = $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM properties`+where, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := `SELECT * FROM properties` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var properties []domain.Property
	err := r.db.SelectContext(ctx, &properties, query, args...)
	return properties, total, err
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, address = $4, city = $5, state = $6,
			price = $7, monthly_rent = $8, listing_type = $9, property_type = $10,
			bedrooms = $11, bathrooms = $12, area_sqft = $13, status = $14, featured = $15,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		property.ID, property.Title, property.Description, property.Address,
		property.City, property.State, property.Price, property.MonthlyRent,
		property.ListingType, property.PropertyType, property.Bedrooms,
		property.Bathrooms, property.AreaSqft, property.Status, property.Featured,
	).Scan(&property.UpdatedAt)
}

func (r *propertyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE properties SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *propertyRepository) AppendImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE properties SET images = array_append(images, $2), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, imageURL)
	return err
}

func (r *propertyRepository) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT id FROM properties WHERE owner_id = $1 AND deleted_at IS NULL`

	err := r.db.SelectContext(ctx, &ids, query, ownerID)
	return ids, err
}

func (r *propertyRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM properties WHERE deleted_at IS NULL`)
	return count, err
}

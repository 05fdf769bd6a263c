package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Property struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	OwnerID      uuid.UUID      `json:"owner_id" db:"owner_id"`
	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Address      string         `json:"address" db:"address"`
	City         string         `json:"city" db:"city"`
	State        string         `json:"state" db:"state"`
	Price        *float64       `json:"price,omitempty" db:"price"`
	MonthlyRent  *float64       `json:"monthly_rent,omitempty" db:"monthly_rent"`
	ListingType  ListingType    `json:"listing_type" db:"listing_type"`
	PropertyType string         `json:"property_type" db:"property_type"`
	Bedrooms     int            `json:"bedrooms" db:"bedrooms"`
	Bathrooms    int            `json:"bathrooms" db:"bathrooms"`
	AreaSqft     float64        `json:"area_sqft" db:"area_sqft"`
	Images       pq.StringArray `json:"images" db:"images"`
	Status       PropertyStatus `json:"status" db:"status"`
	Featured     bool           `json:"featured" db:"featured"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time     `json:"-" db:"deleted_at"`
}

type ListingType string

const (
	ListingSale ListingType = "SALE"
	ListingRent ListingType = "RENT"
)

func (t ListingType) IsValid() bool {
	return t == ListingSale || t == ListingRent
}

type PropertyStatus string

const (
	PropertyDraft    PropertyStatus = "draft"
	PropertyListed   PropertyStatus = "listed"
	PropertySold     PropertyStatus = "sold"
	PropertyRented   PropertyStatus = "rented"
	PropertyUnlisted PropertyStatus = "unlisted"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyDraft, PropertyListed, PropertySold, PropertyRented, PropertyUnlisted:
		return true
	default:
		return false
	}
}

type CreatePropertyInput struct {
	Title        string      `json:"title" validate:"required,min=3"`
	Description  *string     `json:"description,omitempty"`
	Address      string      `json:"address" validate:"required"`
	City         string      `json:"city" validate:"required"`
	State        string      `json:"state" validate:"required"`
	Price        *float64    `json:"price,omitempty"`
	MonthlyRent  *float64    `json:"monthly_rent,omitempty"`
	ListingType  ListingType `json:"listing_type" validate:"required"`
	PropertyType string      `json:"property_type" validate:"required"`
	Bedrooms     int         `json:"bedrooms"`
	Bathrooms    int         `json:"bathrooms"`
	AreaSqft     float64     `json:"area_sqft"`
}

type UpdatePropertyInput struct {
	Title        *string         `json:"title,omitempty" validate:"omitempty,min=3"`
	Description  **string        `json:"description,omitempty"`
	Address      *string         `json:"address,omitempty"`
	City         *string         `json:"city,omitempty"`
	State        *string         `json:"state,omitempty"`
	Price        *float64        `json:"price,omitempty"`
	MonthlyRent  *float64        `json:"monthly_rent,omitempty"`
	ListingType  *ListingType    `json:"listing_type,omitempty"`
	PropertyType *string         `json:"property_type,omitempty"`
	Bedrooms     *int            `json:"bedrooms,omitempty"`
	Bathrooms    *int            `json:"bathrooms,omitempty"`
	AreaSqft     *float64        `json:"area_sqft,omitempty"`
	Status       *PropertyStatus `json:"status,omitempty"`
	Featured     *bool           `json:"featured,omitempty"`
}

type PropertyFilter struct {
	ListingType *ListingType `query:"listing_type"`
	City        *string      `query:"city"`
	OwnerID     *uuid.UUID   `query:"-"`
}

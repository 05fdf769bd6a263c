package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a buyer-initiated tour request for a property.
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	PropertyID  uuid.UUID     `json:"property_id" db:"property_id"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	AgentID     *uuid.UUID    `json:"agent_id,omitempty" db:"agent_id"`
	BookingDate time.Time     `json:"booking_date" db:"booking_date"`
	BookingTime string        `json:"booking_time" db:"booking_time"`
	Notes       *string       `json:"notes,omitempty" db:"notes"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`

	Property *Property `json:"property,omitempty" db:"-"`
	User     *User     `json:"user,omitempty" db:"-"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

type CreateBookingInput struct {
	PropertyID  uuid.UUID `json:"property_id" validate:"required"`
	BookingDate time.Time `json:"booking_date" validate:"required"`
	BookingTime string    `json:"booking_time" validate:"required"`
	Notes       *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a buyer-initiated message expressing interest in a
// property. Contact details are denormalized onto the row so agents can
// reach the customer without another lookup.
type Inquiry struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	PropertyID      uuid.UUID     `json:"property_id" db:"property_id"`
	UserID          *uuid.UUID    `json:"user_id,omitempty" db:"user_id"`
	Name            string        `json:"name" db:"name"`
	Email           string        `json:"email" db:"email"`
	Phone           string        `json:"phone" db:"phone"`
	Message         string        `json:"message" db:"message"`
	InquiryType     string        `json:"inquiry_type" db:"inquiry_type"`
	Status          InquiryStatus `json:"status" db:"status"`
	AssignedAgentID *uuid.UUID    `json:"assigned_agent_id,omitempty" db:"assigned_agent_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`

	Property *Property `json:"property,omitempty" db:"-"`
}

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) IsValid() bool {
	switch s {
	case InquiryNew, InquiryResponded, InquiryClosed:
		return true
	default:
		return false
	}
}

type CreateInquiryInput struct {
	PropertyID  uuid.UUID `json:"property_id" validate:"required"`
	Message     string    `json:"message" validate:"required,min=5"`
	InquiryType string    `json:"inquiry_type" validate:"omitempty,oneof=purchase rental"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment routes one inquiry to one candidate agent. The agent has
// until ExpiresAt to accept or decline; after that the row keeps its
// persisted status and is only rendered as expired.
type Assignment struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	InquiryID   uuid.UUID        `json:"inquiry_id" db:"inquiry_id"`
	AgentID     uuid.UUID        `json:"agent_id" db:"agent_id"`
	Status      AssignmentStatus `json:"status" db:"status"`
	AssignedAt  time.Time        `json:"assigned_at" db:"assigned_at"`
	ExpiresAt   time.Time        `json:"expires_at" db:"expires_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty" db:"responded_at"`
	Notes       *string          `json:"notes,omitempty" db:"notes"`

	Inquiry *Inquiry `json:"inquiry,omitempty" db:"-"`
}

type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentDeclined AssignmentStatus = "declined"
	AssignmentExpired  AssignmentStatus = "expired"
)

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentPending, AssignmentAccepted, AssignmentDeclined, AssignmentExpired:
		return true
	default:
		return false
	}
}

// AssignmentDecision is the subset of statuses an agent may move a
// pending assignment to.
type AssignmentDecision string

const (
	DecisionAccepted AssignmentDecision = "accepted"
	DecisionDeclined AssignmentDecision = "declined"
)

func (d AssignmentDecision) IsValid() bool {
	return d == DecisionAccepted || d == DecisionDeclined
}

func (d AssignmentDecision) Status() AssignmentStatus {
	if d == DecisionAccepted {
		return AssignmentAccepted
	}
	return AssignmentDeclined
}

// DisplayStatus overlays the advisory expiry deadline on top of the
// persisted status: a pending assignment past its deadline reads as
// expired, but the stored row is never rewritten.
func (a *Assignment) DisplayStatus(now time.Time) AssignmentStatus {
	if a.Status == AssignmentPending && now.After(a.ExpiresAt) {
		return AssignmentExpired
	}
	return a.Status
}

// CanRespond reports whether accept/decline should be offered to the
// agent: pending and not yet past the deadline.
func (a *Assignment) CanRespond(now time.Time) bool {
	return a.Status == AssignmentPending && !now.After(a.ExpiresAt)
}

// TimeRemaining returns the time left until the deadline, zero once
// the deadline has passed.
func (a *Assignment) TimeRemaining(now time.Time) time.Duration {
	if remaining := a.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

type CreateAssignmentInput struct {
	InquiryID      uuid.UUID `json:"inquiry_id" validate:"required"`
	AgentID        uuid.UUID `json:"agent_id" validate:"required"`
	ExpiresInHours int       `json:"expires_in_hours" validate:"omitempty,min=1,max=168"`
	Notes          *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type RespondAssignmentInput struct {
	Decision AssignmentDecision `json:"decision" validate:"required"`
	Notes    *string            `json:"notes,omitempty" validate:"omitempty,max=500"`
}

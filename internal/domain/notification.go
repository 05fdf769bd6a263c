package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification is the persisted audit-style record written when
// something noteworthy happens to an entity (an assignment gets
// accepted, a booking gets cancelled). The live dropdown feed is a
// separate, ephemeral projection and never writes these rows.
type Notification struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	UserID     *uuid.UUID       `json:"user_id,omitempty" db:"user_id"`
	Type       NotificationType `json:"type" db:"type"`
	Title      string           `json:"title" db:"title"`
	Message    string           `json:"message" db:"message"`
	EntityType string           `json:"entity_type" db:"entity_type"`
	EntityID   *uuid.UUID       `json:"entity_id,omitempty" db:"entity_id"`
	Data       json.RawMessage  `json:"data,omitempty" db:"data"`
	IsRead     bool             `json:"is_read" db:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifInquiry NotificationType = "inquiry"
	NotifBooking NotificationType = "booking"
	NotifSystem  NotificationType = "system"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifInquiry, NotifBooking, NotifSystem:
		return true
	default:
		return false
	}
}

package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Property     PropertyRepository
	Inquiry      InquiryRepository
	Booking      BookingRepository
	Assignment   AssignmentRepository
	Notification NotificationRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Property:     NewPropertyRepository(db),
		Inquiry:      NewInquiryRepository(db),
		Booking:      NewBookingRepository(db),
		Assignment:   NewAssignmentRepository(db),
		Notification: NewNotificationRepository(db),
		Session:      NewSessionRepository(db),
	}
}

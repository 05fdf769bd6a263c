package handler

import "gharbazaar/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	Property     *PropertyHandler
	Inquiry      *InquiryHandler
	Booking      *BookingHandler
	Assignment   *AssignmentHandler
	Notification *NotificationHandler
	Feed         *FeedHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Property:     NewPropertyHandler(services.Property),
		Inquiry:      NewInquiryHandler(services.Inquiry),
		Booking:      NewBookingHandler(services.Booking),
		Assignment:   NewAssignmentHandler(services.Assignment),
		Notification: NewNotificationHandler(services.Notification),
		Feed:         NewFeedHandler(services.Feed),
		Dashboard:    NewDashboardHandler(services.Dashboard),
	}
}

package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"gharbazaar/internal/config"
	"gharbazaar/internal/realtime"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service/assignment"
	"gharbazaar/internal/service/auth"
	"gharbazaar/internal/service/booking"
	"gharbazaar/internal/service/dashboard"
	"gharbazaar/internal/service/email"
	"gharbazaar/internal/service/feed"
	"gharbazaar/internal/service/inquiry"
	"gharbazaar/internal/service/notification"
	"gharbazaar/internal/service/property"
)

type Services struct {
	Auth         auth.Service
	Property     property.Service
	Inquiry      inquiry.Service
	Booking      booking.Service
	Assignment   assignment.Service
	Notification notification.Service
	Feed         *feed.Service
	Dashboard    dashboard.Service
	Email        email.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	emailService := email.NewService(cfg)
	publisher := realtime.NewPublisher(redisClient)

	authService := auth.NewService(repos.User, repos.Session, emailService, cfg)
	propertyService := property.NewService(repos.Property, minioClient, cfg)
	inquiryService := inquiry.NewService(repos.Inquiry, repos.Property, publisher)
	bookingService := booking.NewService(repos.Booking, repos.Property, repos.User, repos.Notification, publisher, emailService)
	assignmentService := assignment.NewService(repos.Assignment, repos.Inquiry, repos.Property, repos.User, repos.Notification, emailService, cfg.AssignmentExpiry)
	notificationService := notification.NewService(repos.Notification)
	feedService := feed.NewService(redisClient, repos)
	dashboardService := dashboard.NewService(repos.User, repos.Property, repos.Inquiry, repos.Booking, repos.Assignment, redisClient)

	return &Services{
		Auth:         authService,
		Property:     propertyService,
		Inquiry:      inquiryService,
		Booking:      bookingService,
		Assignment:   assignmentService,
		Notification: notificationService,
		Feed:         feedService,
		Dashboard:    dashboardService,
		Email:        emailService,
	}
}

package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"gharbazaar/internal/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

type Stats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalProperties    int64 `json:"total_properties"`
	TotalInquiries     int64 `json:"total_inquiries"`
	TotalBookings      int64 `json:"total_bookings"`
	PendingAssignments int64 `json:"pending_assignments"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	userRepo       repository.UserRepository
	propertyRepo   repository.PropertyRepository
	inquiryRepo    repository.InquiryRepository
	bookingRepo    repository.BookingRepository
	assignmentRepo repository.AssignmentRepository
	redis          *redis.Client
}

func NewService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	inquiryRepo repository.InquiryRepository,
	bookingRepo repository.BookingRepository,
	assignmentRepo repository.AssignmentRepository,
	redisClient *redis.Client,
) Service {
	return &service{
		userRepo:       userRepo,
		propertyRepo:   propertyRepo,
		inquiryRepo:    inquiryRepo,
		bookingRepo:    bookingRepo,
		assignmentRepo: assignmentRepo,
		redis:          redisClient,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	totalUsers, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	totalProperties, err := s.propertyRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	totalInquiries, err := s.inquiryRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	totalBookings, err := s.bookingRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	pendingAssignments, err := s.assignmentRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:         totalUsers,
		TotalProperties:    totalProperties,
		TotalInquiries:     totalInquiries,
		TotalBookings:      totalBookings,
		PendingAssignments: pendingAssignments,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}

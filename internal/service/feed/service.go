package feed

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gharbazaar/internal/realtime"
	"gharbazaar/internal/repository"
)

// Service tracks open feed sessions. Each session holds its own
// subscription; two browser tabs get two independent feeds.
type Service struct {
	redis *redis.Client
	repos *repository.Repositories

	mu        sync.Mutex
	listeners map[uuid.UUID]*Listener
}

func NewService(redisClient *redis.Client, repos *repository.Repositories) *Service {
	return &Service{
		redis:     redisClient,
		repos:     repos,
		listeners: make(map[uuid.UUID]*Listener),
	}
}

// Open builds a feed for the user: a snapshot of recent activity on
// their properties plus a live subscription for new inserts. A user
// with no properties gets an empty feed and no subscription at all,
// so they can never observe another owner's events.
func (s *Service) Open(ctx context.Context, userID uuid.UUID) *Listener {
	propertyIDs, err := s.repos.Property.ListIDsByOwner(ctx, userID)
	if err != nil {
		log.Printf("Failed to load property ids for feed: %v", err)
		propertyIDs = nil
	}

	listener := newListener(userID, propertyIDs, s.repos)
	listener.loadSnapshot(ctx)

	if len(propertyIDs) > 0 && s.redis != nil {
		pubsub := s.redis.Subscribe(context.Background(), realtime.ChannelInquiries, realtime.ChannelBookings)
		listener.releaseSubs = func() {
			if err := pubsub.Close(); err != nil {
				log.Printf("Failed to close feed subscription: %v", err)
			}
		}
		go s.pump(listener, pubsub.Channel())
	}

	s.mu.Lock()
	s.listeners[listener.ID] = listener
	s.mu.Unlock()

	return listener
}

// Get returns the session if it exists and belongs to the user.
func (s *Service) Get(id, userID uuid.UUID) (*Listener, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.listeners[id]
	if !ok || listener.UserID != userID {
		return nil, false
	}
	return listener, true
}

// Close tears the session down and drops it from the registry.
func (s *Service) Close(id, userID uuid.UUID) {
	s.mu.Lock()
	listener, ok := s.listeners[id]
	if ok && listener.UserID == userID {
		delete(s.listeners, id)
	} else {
		listener = nil
	}
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
}

// pump drains the subscription into the listener. It exits when the
// subscription is closed, which closes the message channel.
func (s *Service) pump(listener *Listener, messages <-chan *redis.Message) {
	for msg := range messages {
		switch msg.Channel {
		case realtime.ChannelInquiries:
			var event realtime.InquiryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Malformed inquiry event: %v", err)
				continue
			}
			s.handleInquiry(listener, event)
		case realtime.ChannelBookings:
			var event realtime.BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Malformed booking event: %v", err)
				continue
			}
			s.handleBooking(listener, event)
		}
	}
}

func (s *Service) handleInquiry(listener *Listener, event realtime.InquiryEvent) {
	if !listener.owns(event.PropertyID) {
		return
	}

	ctx := context.Background()
	inquiry, err := s.repos.Inquiry.GetByID(ctx, event.ID)
	if err != nil || inquiry == nil {
		if err != nil {
			log.Printf("Failed to enrich inquiry event: %v", err)
		}
		return
	}

	listener.add(listener.inquiryItem(ctx, inquiry))
}

func (s *Service) handleBooking(listener *Listener, event realtime.BookingEvent) {
	if !listener.owns(event.PropertyID) {
		return
	}

	ctx := context.Background()
	booking, err := s.repos.Booking.GetByID(ctx, event.ID)
	if err != nil || booking == nil {
		if err != nil {
			log.Printf("Failed to enrich booking event: %v", err)
		}
		return
	}

	listener.add(listener.bookingItem(ctx, booking))
}

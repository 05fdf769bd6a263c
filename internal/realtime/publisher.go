// Package realtime carries row-insert events from the write path to
// live notification feeds over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ChannelInquiries = "realtime:inquiries"
	ChannelBookings  = "realtime:bookings"
)

// InquiryEvent is published when an inquiry row is inserted. It carries
// just enough for a listener to decide relevance; display fields are
// fetched by the consumer.
type InquiryEvent struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingEvent is published when a booking row is inserted.
type BookingEvent struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Publisher interface {
	PublishInquiry(ctx context.Context, event InquiryEvent) error
	PublishBooking(ctx context.Context, event BookingEvent) error
}

type publisher struct {
	redis *redis.Client
}

func NewPublisher(redisClient *redis.Client) Publisher {
	return &publisher{redis: redisClient}
}

func (p *publisher) PublishInquiry(ctx context.Context, event InquiryEvent) error {
	return p.publish(ctx, ChannelInquiries, event)
}

func (p *publisher) PublishBooking(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, ChannelBookings, event)
}

func (p *publisher) publish(ctx context.Context, channel string, event interface{}) error {
	// Without Redis there is no live delivery to attempt; the row the
	// event describes is already durable.
	if p.redis == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, channel, payload).Err()
}

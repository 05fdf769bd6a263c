package handler

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/mocks"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service/feed"
)

// brokenWriter behaves like a peer that dropped the connection.
type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("connection reset") }

func openFeedSession(t *testing.T) (*feed.Service, *feed.Listener) {
	t.Helper()

	inquiryRepo := new(mocks.InquiryRepository)
	bookingRepo := new(mocks.BookingRepository)
	propertyRepo := new(mocks.PropertyRepository)
	repos := &repository.Repositories{
		Inquiry:  inquiryRepo,
		Booking:  bookingRepo,
		Property: propertyRepo,
		User:     new(mocks.UserRepository),
	}

	userID := uuid.New()
	propertyRepo.On("ListIDsByOwner", mock.Anything, userID).Return(nil, nil)
	inquiryRepo.On("ListRecentByOwner", mock.Anything, userID, feed.MaxItems).Return(nil, nil)
	bookingRepo.On("ListRecentByOwner", mock.Anything, userID, feed.MaxItems).Return(nil, nil)

	svc := feed.NewService(nil, repos)
	return svc, svc.Open(context.Background(), userID)
}

func waitFor(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for " + what)
	}
}

func TestFeedStream_ClientDisconnectClosesSession(t *testing.T) {
	svc, listener := openFeedSession(t)

	h := NewFeedHandler(svc)
	h.keepAlive = 5 * time.Millisecond

	done := make(chan struct{})
	go func() {
		h.streamFeed(bufio.NewWriterSize(brokenWriter{}, 1), listener)
		close(done)
	}()

	waitFor(t, done, "stream to exit on write failure")

	_, ok := svc.Get(listener.ID, listener.UserID)
	assert.False(t, ok, "abandoned session should be deregistered")

	select {
	case <-listener.Done():
	default:
		t.Fatal("listener should be torn down when the stream dies")
	}
}

func TestFeedStream_SessionCloseEndsStream(t *testing.T) {
	svc, listener := openFeedSession(t)

	h := NewFeedHandler(svc)

	done := make(chan struct{})
	go func() {
		h.streamFeed(bufio.NewWriter(io.Discard), listener)
		close(done)
	}()

	svc.Close(listener.ID, listener.UserID)

	waitFor(t, done, "stream to exit after DELETE")

	// Closing again from the stream's deferred teardown must be a
	// no-op, not a panic.
	_, ok := svc.Get(listener.ID, listener.UserID)
	assert.False(t, ok)
}

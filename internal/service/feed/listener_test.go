package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/mocks"
	"gharbazaar/internal/repository"
)

func testRepos() (*repository.Repositories, *mocks.InquiryRepository, *mocks.BookingRepository, *mocks.PropertyRepository, *mocks.UserRepository) {
	inquiryRepo := new(mocks.InquiryRepository)
	bookingRepo := new(mocks.BookingRepository)
	propertyRepo := new(mocks.PropertyRepository)
	userRepo := new(mocks.UserRepository)

	repos := &repository.Repositories{
		Inquiry:  inquiryRepo,
		Booking:  bookingRepo,
		Property: propertyRepo,
		User:     userRepo,
	}
	return repos, inquiryRepo, bookingRepo, propertyRepo, userRepo
}

func testItem(id string, createdAt time.Time) Item {
	return Item{
		ID:        id,
		Type:      domain.NotifInquiry,
		Title:     "New Property Inquiry",
		CreatedAt: createdAt,
	}
}

func TestListener_LoadSnapshot(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	propertyID := uuid.New()

	t.Run("Merges Both Sides Newest First", func(t *testing.T) {
		repos, inquiryRepo, bookingRepo, propertyRepo, userRepo := testRepos()
		now := time.Now()

		inquiryRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return([]domain.Inquiry{
			{ID: uuid.New(), PropertyID: propertyID, Name: "Ravi", CreatedAt: now.Add(-2 * time.Minute)},
		}, nil).Once()
		bookingRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return([]domain.Booking{
			{ID: uuid.New(), PropertyID: propertyID, UserID: uuid.New(), CreatedAt: now.Add(-1 * time.Minute)},
		}, nil).Once()
		propertyRepo.On("GetByID", ctx, propertyID).Return(&domain.Property{ID: propertyID, Title: "Hill Villa"}, nil)
		userRepo.On("GetByID", ctx, mock.Anything).Return(&domain.User{FirstName: "Meera", LastName: "Shah"}, nil)

		listener := newListener(userID, []uuid.UUID{propertyID}, repos)
		listener.loadSnapshot(ctx)

		items, unread := listener.Snapshot()
		assert.Len(t, items, 2)
		assert.Equal(t, 2, unread)
		assert.Equal(t, domain.NotifBooking, items[0].Type)
		assert.Equal(t, domain.NotifInquiry, items[1].Type)
		assert.Contains(t, items[0].Message, "Meera Shah")
		assert.Contains(t, items[1].Message, "Hill Villa")
	})

	t.Run("Truncates At The Cap", func(t *testing.T) {
		repos, inquiryRepo, bookingRepo, propertyRepo, userRepo := testRepos()
		now := time.Now()

		var inquiries []domain.Inquiry
		for i := 0; i < MaxItems; i++ {
			inquiries = append(inquiries, domain.Inquiry{ID: uuid.New(), PropertyID: propertyID, CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
		}
		inquiryRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(inquiries, nil).Once()
		bookingRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return([]domain.Booking{
			{ID: uuid.New(), PropertyID: propertyID, CreatedAt: now},
		}, nil).Once()
		propertyRepo.On("GetByID", ctx, propertyID).Return(nil, nil)
		userRepo.On("GetByID", ctx, mock.Anything).Return(nil, nil)

		listener := newListener(userID, []uuid.UUID{propertyID}, repos)
		listener.loadSnapshot(ctx)

		items, unread := listener.Snapshot()
		assert.Len(t, items, MaxItems)
		assert.Equal(t, MaxItems, unread)
	})

	t.Run("Fetch Error Leaves That Side Empty", func(t *testing.T) {
		repos, inquiryRepo, bookingRepo, propertyRepo, userRepo := testRepos()

		inquiryRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return(nil, fmt.Errorf("db error")).Once()
		bookingRepo.On("ListRecentByOwner", ctx, userID, MaxItems).Return([]domain.Booking{
			{ID: uuid.New(), PropertyID: propertyID, CreatedAt: time.Now()},
		}, nil).Once()
		propertyRepo.On("GetByID", ctx, propertyID).Return(nil, nil)
		userRepo.On("GetByID", ctx, mock.Anything).Return(nil, nil)

		listener := newListener(userID, []uuid.UUID{propertyID}, repos)
		listener.loadSnapshot(ctx)

		items, _ := listener.Snapshot()
		assert.Len(t, items, 1)
		assert.Equal(t, "your property", items[0].PropertyTitle)
		assert.Equal(t, "A customer", items[0].UserName)
	})
}

func TestListener_Add(t *testing.T) {
	repos, _, _, _, _ := testRepos()
	userID := uuid.New()

	t.Run("Prepends And Caps", func(t *testing.T) {
		listener := newListener(userID, nil, repos)
		now := time.Now()

		for i := 0; i < MaxItems+5; i++ {
			listener.add(testItem(fmt.Sprintf("inquiry-%d", i), now.Add(time.Duration(i)*time.Second)))
		}

		items, unread := listener.Snapshot()
		assert.Len(t, items, MaxItems)
		assert.Equal(t, MaxItems, unread)
		assert.Equal(t, fmt.Sprintf("inquiry-%d", MaxItems+4), items[0].ID)
	})

	t.Run("Unread Recounted When Read Item Falls Off", func(t *testing.T) {
		listener := newListener(userID, nil, repos)
		now := time.Now()

		for i := 0; i < MaxItems; i++ {
			listener.add(testItem(fmt.Sprintf("inquiry-%d", i), now))
		}
		listener.MarkRead("inquiry-0")
		assert.Equal(t, MaxItems-1, listener.UnreadCount())

		// inquiry-0 is now the oldest; the next insert pushes it out and
		// the counter must equal the unread items actually held.
		listener.add(testItem("inquiry-new", now))

		items, unread := listener.Snapshot()
		assert.Len(t, items, MaxItems)
		assert.Equal(t, MaxItems, unread)
		for _, item := range items {
			assert.NotEqual(t, "inquiry-0", item.ID)
		}
	})

	t.Run("Delivers On The Events Channel", func(t *testing.T) {
		listener := newListener(userID, nil, repos)
		item := testItem("inquiry-live", time.Now())

		listener.add(item)

		select {
		case got := <-listener.Events():
			assert.Equal(t, item.ID, got.ID)
		default:
			t.Fatal("expected a buffered event")
		}
	})
}

func TestListener_MarkRead(t *testing.T) {
	repos, _, _, _, _ := testRepos()
	listener := newListener(uuid.New(), nil, repos)
	now := time.Now()

	listener.add(testItem("inquiry-a", now))
	listener.add(testItem("inquiry-b", now))
	assert.Equal(t, 2, listener.UnreadCount())

	listener.MarkRead("inquiry-a")
	assert.Equal(t, 1, listener.UnreadCount())

	// Marking twice or marking an unknown id changes nothing.
	listener.MarkRead("inquiry-a")
	listener.MarkRead("inquiry-missing")
	assert.Equal(t, 1, listener.UnreadCount())

	listener.MarkAllRead()
	assert.Equal(t, 0, listener.UnreadCount())

	items, unread := listener.Snapshot()
	assert.Equal(t, 0, unread)
	for _, item := range items {
		assert.True(t, item.Read)
	}
}

func TestListener_Owns(t *testing.T) {
	repos, _, _, _, _ := testRepos()
	mine := uuid.New()
	listener := newListener(uuid.New(), []uuid.UUID{mine}, repos)

	assert.True(t, listener.owns(mine))
	assert.False(t, listener.owns(uuid.New()))
}

func TestListener_Close(t *testing.T) {
	repos, _, _, _, _ := testRepos()

	t.Run("Releases Subscription Exactly Once", func(t *testing.T) {
		listener := newListener(uuid.New(), nil, repos)
		released := 0
		listener.releaseSubs = func() { released++ }

		listener.Close()
		listener.Close()

		assert.Equal(t, 1, released)
		select {
		case <-listener.Done():
		default:
			t.Fatal("done channel should be closed")
		}
	})

	t.Run("Safe Without Subscription", func(t *testing.T) {
		listener := newListener(uuid.New(), nil, repos)
		assert.NotPanics(t, listener.Close)
	})
}

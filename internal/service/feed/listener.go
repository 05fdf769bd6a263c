// Package feed gives sellers and agents a live view of new inquiries
// and tour bookings on properties they own. A feed is ephemeral: it is
// built when a client opens a session, mutated only in memory, and
// thrown away when the session closes. The persisted notifications
// table is a separate concern.
package feed

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/repository"
)

// MaxItems caps the in-memory feed. Older entries fall off the end.
const MaxItems = 15

// Item is one entry in the dropdown feed.
type Item struct {
	ID            string                  `json:"id"`
	Type          domain.NotificationType `json:"type"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	PropertyTitle string                  `json:"property_title,omitempty"`
	UserName      string                  `json:"user_name,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	Read          bool                    `json:"read"`
}

// Listener is one open feed session. All methods are safe for
// concurrent use; the unread counter always equals the number of
// unread items currently held.
type Listener struct {
	ID     uuid.UUID
	UserID uuid.UUID

	propertyIDs map[uuid.UUID]struct{}

	mu     sync.Mutex
	items  []Item
	unread int

	events chan Item
	done   chan struct{}

	closeOnce   sync.Once
	releaseSubs func()

	inquiryRepo  repository.InquiryRepository
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
}

func newListener(userID uuid.UUID, propertyIDs []uuid.UUID, repos *repository.Repositories) *Listener {
	idSet := make(map[uuid.UUID]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		idSet[id] = struct{}{}
	}

	return &Listener{
		ID:           uuid.New(),
		UserID:       userID,
		propertyIDs:  idSet,
		events:       make(chan Item, 16),
		done:         make(chan struct{}),
		inquiryRepo:  repos.Inquiry,
		bookingRepo:  repos.Booking,
		propertyRepo: repos.Property,
		userRepo:     repos.User,
	}
}

// loadSnapshot seeds the feed with the newest inquiries and bookings
// on the user's properties: both sides fetched up to the cap, merged,
// sorted newest first, truncated, all unread. Fetch errors are logged
// and leave that side empty.
func (l *Listener) loadSnapshot(ctx context.Context) {
	var items []Item

	inquiries, err := l.inquiryRepo.ListRecentByOwner(ctx, l.UserID, MaxItems)
	if err != nil {
		log.Printf("Failed to load recent inquiries: %v", err)
	}
	for i := range inquiries {
		items = append(items, l.inquiryItem(ctx, &inquiries[i]))
	}

	bookings, err := l.bookingRepo.ListRecentByOwner(ctx, l.UserID, MaxItems)
	if err != nil {
		log.Printf("Failed to load recent bookings: %v", err)
	}
	for i := range bookings {
		items = append(items, l.bookingItem(ctx, &bookings[i]))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	l.mu.Lock()
	l.items = items
	l.unread = len(items)
	l.mu.Unlock()
}

func (l *Listener) inquiryItem(ctx context.Context, inquiry *domain.Inquiry) Item {
	propertyTitle := "your property"
	if property, err := l.propertyRepo.GetByID(ctx, inquiry.PropertyID); err == nil && property != nil {
		propertyTitle = property.Title
	}

	return Item{
		ID:            "inquiry-" + inquiry.ID.String(),
		Type:          domain.NotifInquiry,
		Title:         "New Property Inquiry",
		Message:       inquiry.Name + " is interested in " + propertyTitle,
		PropertyTitle: propertyTitle,
		UserName:      inquiry.Name,
		CreatedAt:     inquiry.CreatedAt,
	}
}

func (l *Listener) bookingItem(ctx context.Context, booking *domain.Booking) Item {
	propertyTitle := "your property"
	if property, err := l.propertyRepo.GetByID(ctx, booking.PropertyID); err == nil && property != nil {
		propertyTitle = property.Title
	}

	userName := "A customer"
	if user, err := l.userRepo.GetByID(ctx, booking.UserID); err == nil && user != nil {
		userName = user.FullName()
	}

	return Item{
		ID:            "booking-" + booking.ID.String(),
		Type:          domain.NotifBooking,
		Title:         "New Tour Request",
		Message:       userName + " wants to tour " + propertyTitle,
		PropertyTitle: propertyTitle,
		UserName:      userName,
		CreatedAt:     booking.CreatedAt,
	}
}

// owns reports whether an event for the given property belongs in this
// feed.
func (l *Listener) owns(propertyID uuid.UUID) bool {
	_, ok := l.propertyIDs[propertyID]
	return ok
}

// add prepends a live item, drops anything past the cap and recounts
// unread so the counter stays consistent even when an unread entry
// falls off the end.
func (l *Listener) add(item Item) {
	l.mu.Lock()
	l.items = append([]Item{item}, l.items...)
	if len(l.items) > MaxItems {
		l.items = l.items[:MaxItems]
	}
	l.recountUnreadLocked()
	l.mu.Unlock()

	select {
	case l.events <- item:
	default:
		// Slow consumer: the snapshot still has the item, only the
		// push is dropped.
	}
}

func (l *Listener) recountUnreadLocked() {
	unread := 0
	for i := range l.items {
		if !l.items[i].Read {
			unread++
		}
	}
	l.unread = unread
}

// Snapshot returns a copy of the current feed and the unread count.
func (l *Listener) Snapshot() ([]Item, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]Item, len(l.items))
	copy(items, l.items)
	return items, l.unread
}

func (l *Listener) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// MarkRead flips one item to read. Unknown ids are ignored.
func (l *Listener) MarkRead(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id && !l.items[i].Read {
			l.items[i].Read = true
			if l.unread > 0 {
				l.unread--
			}
			return
		}
	}
}

func (l *Listener) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		l.items[i].Read = true
	}
	l.unread = 0
}

// Events is the live delivery channel consumed by the SSE stream.
func (l *Listener) Events() <-chan Item {
	return l.events
}

// Done is closed when the listener is shut down.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Close releases the live subscription and wakes any stream readers.
// Safe to call more than once and on every exit path.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		if l.releaseSubs != nil {
			l.releaseSubs()
		}
		close(l.done)
	})
}

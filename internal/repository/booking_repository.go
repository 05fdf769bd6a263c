package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	// ListByOwner returns every booking against properties owned by the
	// given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error)
	ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
	CountAll(ctx context.Context) (int64, error)
}

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, property_id, user_id, agent_id, booking_date, booking_time, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		booking.ID, booking.PropertyID, booking.UserID, booking.AgentID,
		booking.BookingDate, booking.BookingTime, booking.Notes, booking.Status,
	).Scan(&booking.CreatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	var bookings []domain.Booking
	query := `SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &bookings, query, userID)
	return bookings, err
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	var bookings []domain.Booking
	query := `
		SELECT b.* FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE p.owner_id = $1 AND p.deleted_at IS NULL
		ORDER BY b.created_at DESC`

	err := r.db.SelectContext(ctx, &bookings, query, ownerID)
	return bookings, err
}

func (r *bookingRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Booking, error) {
	var bookings []domain.Booking
	query := `
		SELECT b.* FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE p.owner_id = $1 AND p.deleted_at IS NULL
		ORDER BY b.created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &bookings, query, ownerID, limit)
	return bookings, err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings`)
	return count, err
}

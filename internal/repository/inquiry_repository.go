package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error)
	// ListByOwner returns every inquiry against properties owned by the
	// given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Inquiry, error)
	// ListRecentByOwner is the capped variant used to seed live feeds.
	ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) error
	SetAssignedAgent(ctx context.Context, id, agentID uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}

type inquiryRepository struct {
	db *sqlx.DB
}

func NewInquiryRepository(db *sqlx.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, property_id, user_id, name, email, phone, message, inquiry_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		inquiry.ID, inquiry.PropertyID, inquiry.UserID, inquiry.Name, inquiry.Email,
		inquiry.Phone, inquiry.Message, inquiry.InquiryType, inquiry.Status,
	).Scan(&inquiry.CreatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	query := `SELECT * FROM inquiries WHERE id = $1`

	err := r.db.GetContext(ctx, &inquiry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	query := `SELECT * FROM inquiries WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &inquiries, query, userID)
	return inquiries, err
}

func (r *inquiryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	query := `
		SELECT i.* FROM inquiries i
		JOIN properties p ON p.id = i.property_id
		WHERE p.owner_id = $1 AND p.deleted_at IS NULL
		ORDER BY i.created_at DESC`

	err := r.db.SelectContext(ctx, &inquiries, query, ownerID)
	return inquiries, err
}

func (r *inquiryRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	query := `
		SELECT i.* FROM inquiries i
		JOIN properties p ON p.id = i.property_id
		WHERE p.owner_id = $1 AND p.deleted_at IS NULL
		ORDER BY i.created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &inquiries, query, ownerID, limit)
	return inquiries, err
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) error {
	query := `UPDATE inquiries SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *inquiryRepository) SetAssignedAgent(ctx context.Context, id, agentID uuid.UUID) error {
	query := `UPDATE inquiries SET assigned_agent_id = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, agentID)
	return err
}

func (r *inquiryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inquiries`)
	return count, err
}

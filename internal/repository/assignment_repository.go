package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error)
	// UpdateResponse overwrites status, responded_at and notes without
	// checking the current status. Concurrent responses race and the
	// last write wins.
	UpdateResponse(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, notes *string) error
	CountPending(ctx context.Context) (int64, error)
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO agent_inquiry_assignments (id, inquiry_id, agent_id, status, assigned_at, expires_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.InquiryID, assignment.AgentID, assignment.Status,
		assignment.AssignedAt, assignment.ExpiresAt, assignment.Notes,
	)
	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	query := `SELECT * FROM agent_inquiry_assignments WHERE id = $1`

	err := r.db.GetContext(ctx, &assignment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	query := `
		SELECT * FROM agent_inquiry_assignments
		WHERE agent_id = $1
		ORDER BY assigned_at DESC`

	err := r.db.SelectContext(ctx, &assignments, query, agentID)
	return assignments, err
}

func (r *assignmentRepository) UpdateResponse(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, notes *string) error {
	query := `
		UPDATE agent_inquiry_assignments
		SET status = $2, responded_at = NOW(), notes = $3
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status, notes)
	return err
}

func (r *assignmentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM agent_inquiry_assignments WHERE status = 'pending'`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

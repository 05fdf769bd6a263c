package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gharbazaar/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone_number, role,
			is_active, email_verification_token, email_verification_sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.Role, user.IsActive,
		user.EmailVerificationToken, user.EmailVerificationSentAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email_verification_token = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users WHERE role = $1 AND is_active = true AND deleted_at IS NULL ORDER BY first_name`

	err := r.db.SelectContext(ctx, &users, query, role)
	return users, err
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET is_email_verified = true, email_verification_token = NULL, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`)
	return count, err
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gharbazaar/internal/config"
	"gharbazaar/internal/domain"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service/email"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

type Service interface {
	Register(ctx context.Context, input domain.CreateUserInput) (*domain.User, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.User, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll revokes every live session the user holds.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, token string) error
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	emailSvc    email.Service
	cfg         *config.Config
}

func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, emailSvc email.Service, cfg *config.Config) Service {
	return &service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		emailSvc:    emailSvc,
		cfg:         cfg,
	}
}

func (s *service) Register(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = string(domain.RoleBuyer)
	}
	if !domain.UserRole(role).IsValid() || role == string(domain.RoleAdmin) {
		return nil, errors.New("invalid role")
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	verificationToken := hex.EncodeToString(tokenBytes)
	now := time.Now()

	user := &domain.User{
		ID:                      uuid.New(),
		Email:                   input.Email,
		PasswordHash:            string(hashedPassword),
		FirstName:               input.FirstName,
		LastName:                input.LastName,
		PhoneNumber:             input.PhoneNumber,
		Role:                    role,
		IsActive:                true,
		EmailVerificationToken:  &verificationToken,
		EmailVerificationSentAt: &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailSvc.SendEmailVerification(context.Background(), user.Email, user.FullName(), verificationToken); err != nil {
			log.Printf("Failed to send verification email: %v", err)
		}
	}()

	return user, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.User, *domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

func (s *service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllForUser(ctx, userID)
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}
	return s.userRepo.MarkEmailVerified(ctx, user.ID)
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenRaw := uuid.New().String()

	session := &repository.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/middleware"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
)

// ErrInvalidCredentials indicates the email/password pair did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues bearer tokens for students and admins.
type AuthService interface {
	LoginStudent(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	LoginAdmin(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	students  repository.StudentRepository
	admins    repository.AdminRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the authentication service.
func NewAuthService(students repository.StudentRepository, admins repository.AdminRepository, validate *validator.Validate, secret string, tokenTTL, timeout time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		students:  students,
		admins:    admins,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		timeout:   timeout,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) LoginStudent(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	student, err := s.students.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student logged in")

	return s.issueToken(student.ID, middleware.RoleStudent)
}

func (s *authService) LoginAdmin(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	admin, err := s.admins.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("admin logged in")

	return s.issueToken(admin.ID, middleware.RoleAdmin)
}

func (s *authService) issueToken(subject uint, role string) (dto.LoginResponse, error) {
	now := s.now()
	expiry := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  expiry.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:     token,
		Role:      role,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *authService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

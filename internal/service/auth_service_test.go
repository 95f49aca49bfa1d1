package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/middleware"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

type stubAdminRepo struct {
	admins []models.Admin
}

func (r *stubAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = uint(len(r.admins) + 1)
	r.admins = append(r.admins, *admin)
	return nil
}

func (r *stubAdminRepo) GetByID(ctx context.Context, id uint) (models.Admin, error) {
	for _, admin := range r.admins {
		if admin.ID == id {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (r *stubAdminRepo) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	students := &memoryStudentRepo{students: []models.Student{{
		ID:           7,
		Email:        "asha@example.com",
		PasswordHash: string(hash),
	}}}
	admins := &stubAdminRepo{admins: []models.Admin{{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	}}}

	return NewAuthService(students, admins, validator.New(validator.WithRequiredStructEnabled()), "test-secret", time.Hour, time.Second, testLogger())
}

func TestAuthServiceLoginStudent(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	require.Equal(t, middleware.RoleStudent, resp.Role)
	require.Equal(t, int64(3600), resp.ExpiresIn)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, float64(7), claims["sub"])
	require.Equal(t, middleware.RoleStudent, claims["role"])
}

func TestAuthServiceLoginAdmin(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.LoginAdmin(context.Background(), dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	require.Equal(t, middleware.RoleAdmin, resp.Role)
}

func TestAuthServiceRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrongpassword",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts produce the same error as bad passwords.
	_, err = svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cretpass",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

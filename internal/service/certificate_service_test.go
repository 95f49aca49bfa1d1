package service

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

type memoryCertificateRepo struct {
	items  []models.Certificate
	nextID uint
}

func (r *memoryCertificateRepo) Create(ctx context.Context, certificate *models.Certificate) error {
	r.nextID++
	certificate.ID = r.nextID
	certificate.Student = models.Student{ID: certificate.StudentID, Name: "Asha Verma", RollNumber: "CIT20260007"}
	certificate.Course = models.Course{ID: certificate.CourseID, Title: "Diploma in Computer Applications"}
	r.items = append(r.items, *certificate)
	return nil
}

func (r *memoryCertificateRepo) GetByNumber(ctx context.Context, number string) (models.Certificate, error) {
	for _, item := range r.items {
		if item.CertificateNumber == number {
			return item, nil
		}
	}
	return models.Certificate{}, gorm.ErrRecordNotFound
}

func (r *memoryCertificateRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, item := range r.items {
		if item.StudentID == studentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func newCertificateFixture(t *testing.T, cache *redis.Client, enrolled bool) (CertificateService, *memoryCertificateRepo) {
	t.Helper()

	repo := &memoryCertificateRepo{}
	enrollmentRepo := &memoryEnrollmentRepo{}
	if enrolled {
		enrollmentRepo.items = []models.Enrollment{{ID: 1, StudentID: 7, CourseID: 1}}
	}

	svc := NewCertificateService(repo, enrollmentRepo, validator.New(validator.WithRequiredStructEnabled()), cache, time.Minute, testLogger())
	return svc, repo
}

func TestCertificateServiceIssue(t *testing.T) {
	svc, _ := newCertificateFixture(t, nil, true)

	resp, err := svc.Issue(context.Background(), dto.CertificateIssueRequest{StudentID: 7, CourseID: 1})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(resp.CertificateNumber, "CIT-CERT-"))
	require.Equal(t, "Asha Verma", resp.StudentName)
	require.Equal(t, "Diploma in Computer Applications", resp.CourseTitle)
}

func TestCertificateServiceIssueRequiresEnrollment(t *testing.T) {
	svc, _ := newCertificateFixture(t, nil, false)

	_, err := svc.Issue(context.Background(), dto.CertificateIssueRequest{StudentID: 7, CourseID: 1})
	require.ErrorIs(t, err, ErrCertificateNotEligible)
}

func TestCertificateServiceVerifyUnknownNumber(t *testing.T) {
	svc, _ := newCertificateFixture(t, nil, true)

	result, err := svc.Verify(context.Background(), "CIT-CERT-2026-DEADBEEF")
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Nil(t, result.Certificate)
}

func TestCertificateServiceVerifyUsesCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	svc, repo := newCertificateFixture(t, client, true)

	issued, err := svc.Issue(context.Background(), dto.CertificateIssueRequest{StudentID: 7, CourseID: 1})
	require.NoError(t, err)

	first, err := svc.Verify(context.Background(), issued.CertificateNumber)
	require.NoError(t, err)
	require.True(t, first.Found)

	// Drop the backing record; the cached verification must still answer.
	repo.items = nil

	second, err := svc.Verify(context.Background(), issued.CertificateNumber)
	require.NoError(t, err)
	require.True(t, second.Found)
	require.Equal(t, first.Certificate.CertificateNumber, second.Certificate.CertificateNumber)
}

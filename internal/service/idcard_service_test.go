package service

import (
	"context"
	"errors"
	"testing"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

type mapFetcher struct {
	payloads map[string][]byte
	failures map[string]error
}

func (f *mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err, ok := f.failures[url]; ok {
		return nil, err
	}
	payload, ok := f.payloads[url]
	if !ok {
		return nil, errors.New("unknown url")
	}
	return payload, nil
}

const (
	frontURL = "https://cdn.example.com/templates/front.png"
	backURL  = "https://cdn.example.com/templates/back.png"
	photoURL = "https://cdn.example.com/photos/CIT20260007.png"
)

func idCardFixture(t *testing.T, fetcher ResourceFetcher, photo string, paid bool) IDCardService {
	t.Helper()

	studentRepo := &memoryStudentRepo{students: []models.Student{{
		ID:          7,
		RollNumber:  "CIT20260007",
		Name:        "Asha Verma",
		Email:       "asha@example.com",
		Gender:      "female",
		Mobile:      "9876543210",
		BloodGroup:  "B+",
		DateOfBirth: time.Date(2002, 4, 15, 0, 0, 0, 0, time.UTC),
		PhotoURL:    photo,
	}}}
	courseRepo := &stubCourseRepo{courses: map[uint]models.Course{
		1: {
			ID:             1,
			Title:          "Diploma in Computer Applications",
			DurationMonths: 6,
			FeePerMonth:    1000,
			StartDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	txRepo := &memoryTransactionRepo{}
	if paid {
		txRepo.items = []models.Transaction{{
			ID: 1, StudentID: 7, CourseID: 1, Status: models.TransactionStatusPaid,
		}}
	}

	return NewIDCardService(studentRepo, courseRepo, txRepo, fetcher, frontURL, backURL, testLogger())
}

func pngPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := qrcode.Encode("placeholder", qrcode.Low, 64)
	require.NoError(t, err)
	return payload
}

func TestIDCardServiceGenerates(t *testing.T) {
	png := pngPayload(t)
	fetcher := &mapFetcher{payloads: map[string][]byte{
		frontURL: png,
		backURL:  png,
		photoURL: png,
	}}
	svc := idCardFixture(t, fetcher, photoURL, true)

	artifact, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)

	require.Equal(t, "CIT20260007_IDCard.pdf", artifact.FileName)
	require.Equal(t, "application/pdf", artifact.ContentType)
	require.Equal(t, "%PDF", string(artifact.Content[:4]))
}

func TestIDCardServiceRequiresPhoto(t *testing.T) {
	svc := idCardFixture(t, &mapFetcher{}, "", true)

	_, err := svc.Generate(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrPhotoMissing)
}

func TestIDCardServiceRequiresApprovedPayment(t *testing.T) {
	svc := idCardFixture(t, &mapFetcher{}, photoURL, false)

	_, err := svc.Generate(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrIDCardNotEligible)
}

func TestIDCardServiceNamesFailedResource(t *testing.T) {
	png := pngPayload(t)
	fetcher := &mapFetcher{
		payloads: map[string][]byte{backURL: png, photoURL: png},
		failures: map[string]error{frontURL: errors.New("connection refused")},
	}
	svc := idCardFixture(t, fetcher, photoURL, true)

	_, err := svc.Generate(context.Background(), 7, 1)

	var resourceErr *apperr.ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, "front template", resourceErr.Resource)
}

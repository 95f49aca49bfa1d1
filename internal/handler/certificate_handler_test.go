package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/handler"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
)

func TestCertificateHandlerIssueAndVerify(t *testing.T) {
	db := openTestDB(t)
	student, course := seedStudentAndCourse(t, db)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	certificateService := service.NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewEnrollmentRepository(db),
		validate, nil, 0, logger,
	)
	certificateHandler := handler.NewCertificateHandler(certificateService, testMessages(), logger)

	app := fiber.New()
	certificateHandler.RegisterPublic(app.Group("/api/v1/certificates"))
	certificateHandler.RegisterAdmin(app.Group("/api/v1/admin/certificates", localsMiddleware(1, "admin")))

	payload, err := json.Marshal(dto.CertificateIssueRequest{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)

	issueReq := httptest.NewRequest(http.MethodPost, "/api/v1/admin/certificates", bytes.NewReader(payload))
	issueReq.Header.Set("Content-Type", "application/json")
	issueResp, err := app.Test(issueReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, issueResp.StatusCode)

	var issued struct {
		Data dto.CertificateResponse `json:"data"`
	}
	decodeResponse(t, issueResp, &issued)
	require.NotEmpty(t, issued.Data.CertificateNumber)

	verifyResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/certificates/verify/"+issued.Data.CertificateNumber, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, verifyResp.StatusCode)

	var verified struct {
		Data dto.VerificationResult `json:"data"`
	}
	decodeResponse(t, verifyResp, &verified)
	require.True(t, verified.Data.Found)
	require.Equal(t, student.Name, verified.Data.Certificate.StudentName)
}

func TestCertificateHandlerVerifyUnknownNumber(t *testing.T) {
	db := openTestDB(t)

	certificateService := service.NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewEnrollmentRepository(db),
		validator.New(validator.WithRequiredStructEnabled()), nil, 0, zerolog.Nop(),
	)
	certificateHandler := handler.NewCertificateHandler(certificateService, testMessages(), zerolog.Nop())

	app := fiber.New()
	certificateHandler.RegisterPublic(app.Group("/api/v1/certificates"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/certificates/verify/CIT-CERT-2026-UNKNOWN1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data dto.VerificationResult `json:"data"`
	}
	decodeResponse(t, resp, &result)
	require.False(t, result.Data.Found)
	require.Nil(t, result.Data.Certificate)
}

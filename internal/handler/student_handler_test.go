package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/handler"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

func newStudentApp(t *testing.T) (*fiber.App, service.StudentService) {
	t.Helper()

	db := openTestDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	studentService := service.NewStudentService(
		repository.NewStudentRepository(db), validate, nil, retry.Config{}, 0, logger,
	)
	studentHandler := handler.NewStudentHandler(studentService, testMessages(), logger)

	app := fiber.New()
	studentHandler.RegisterPublic(app.Group("/api/v1/students"))

	return app, studentService
}

func registerBody(t *testing.T, email string) *bytes.Reader {
	t.Helper()

	address := dto.AddressPayload{
		FlatHouseNo: "12B",
		Street:      "MG Road",
		PO:          "City PO",
		PS:          "Central",
		District:    "Patna",
		State:       "Bihar",
		Pincode:     "800001",
	}
	payload, err := json.Marshal(dto.StudentRegisterRequest{
		Name:             "Asha Verma",
		Email:            email,
		Password:         "s3cretpass",
		Mobile:           "9876543210",
		Gender:           "female",
		DateOfBirth:      "2002-04-15",
		BloodGroup:       "B+",
		LocalAddress:     address,
		PermanentAddress: address,
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestStudentHandlerRegister(t *testing.T) {
	app, _ := newStudentApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/register", registerBody(t, "asha@example.com"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, strings.HasPrefix(created.Data.RollNumber, "CIT"))
	require.False(t, created.Data.EmailVerified)

	// The same email cannot register twice.
	repeat := httptest.NewRequest(http.MethodPost, "/api/v1/students/register", registerBody(t, "asha@example.com"))
	repeat.Header.Set("Content-Type", "application/json")

	conflictResp, err := app.Test(repeat)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, conflictResp.StatusCode)
}

func TestStudentHandlerRegisterAfterDeletion(t *testing.T) {
	app, studentService := newStudentApp(t)

	register := func(email string) dto.StudentResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students/register", registerBody(t, email))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			Data dto.StudentResponse `json:"data"`
		}
		decodeResponse(t, resp, &created)
		return created.Data
	}

	first := register("asha@example.com")
	second := register("binod@example.com")
	require.True(t, strings.HasSuffix(second.RollNumber, "0002"))

	// Deleting a student must not free their roll number for reuse.
	require.NoError(t, studentService.Delete(context.Background(), first.ID))

	third := register("chitra@example.com")
	require.True(t, strings.HasSuffix(third.RollNumber, "0003"))
}

func TestStudentHandlerRegisterValidation(t *testing.T) {
	app, _ := newStudentApp(t)

	payload, err := json.Marshal(dto.StudentRegisterRequest{Name: "A", Email: "not-an-email"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudentHandlerVerifyEmail(t *testing.T) {
	app, _ := newStudentApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/register", registerBody(t, "asha@example.com"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// An unknown token is rejected.
	badResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/verify?token=no-such-token", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

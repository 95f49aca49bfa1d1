package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/events"
	"github.com/adityaharshit/code-i-technology-sub001/internal/handler"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Admin{},
		&models.Course{},
		&models.Enrollment{},
		&models.Transaction{},
		&models.Certificate{},
	))

	return db
}

func testMessages() config.MessageConfig {
	return config.MessageConfig{
		Timeout: "The request timed out. Please try again.",
		Network: "A network error occurred. Check your connection and try again.",
		Server:  "The server encountered an error. Please try again later.",
		Generic: "Something went wrong. Please try again.",
	}
}

func localsMiddleware(userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}

func seedStudentAndCourse(t *testing.T, db *gorm.DB) (models.Student, models.Course) {
	t.Helper()

	address := models.Address{
		FlatHouseNo: "12B",
		Street:      "MG Road",
		PO:          "City PO",
		PS:          "Central",
		District:    "Patna",
		State:       "Bihar",
		Pincode:     "800001",
	}
	student := models.Student{
		RollNumber:       "CIT20260001",
		Name:             "Asha Verma",
		Email:            "asha@example.com",
		PasswordHash:     "x",
		Mobile:           "9876543210",
		LocalAddress:     datatypes.NewJSONType(address),
		PermanentAddress: datatypes.NewJSONType(address),
	}
	require.NoError(t, db.Create(&student).Error)

	course := models.Course{
		Title:          "Diploma in Computer Applications",
		DurationMonths: 6,
		FeePerMonth:    1000,
		Status:         models.CourseStatusLive,
		StartDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&course).Error)

	return student, course
}

func newTransactionApp(t *testing.T, db *gorm.DB, studentID uint) *fiber.App {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	transactionRepo := repository.NewTransactionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	transactionService := service.NewTransactionService(
		transactionRepo, courseRepo, enrollmentRepo,
		validate, nil, retry.Config{}, 0,
		events.NewPublisher(nil, "", logger), logger,
	)
	invoiceService := service.NewInvoiceService(transactionRepo, validate, logger)

	transactionHandler := handler.NewTransactionHandler(transactionService, invoiceService, testMessages(), logger)

	app := fiber.New()
	transactionHandler.RegisterStudent(app.Group("/api/v1/transactions", localsMiddleware(studentID, "student")))
	transactionHandler.RegisterAdmin(app.Group("/api/v1/admin/transactions", localsMiddleware(1, "admin")))

	return app
}

func postTransactionForm(t *testing.T, app *fiber.App, courseID uint, months, mode string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("course_id", itoa(courseID)))
	require.NoError(t, writer.WriteField("months", months))
	require.NoError(t, writer.WriteField("mode_of_payment", mode))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestTransactionHandlerLifecycle(t *testing.T) {
	db := openTestDB(t)
	student, course := seedStudentAndCourse(t, db)
	app := newTransactionApp(t, db, student.ID)

	resp := postTransactionForm(t, app, course.ID, "6", models.PaymentModeOffline)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.TransactionResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.Equal(t, 5400.0, created.Data.NetPayable)
	require.Equal(t, models.TransactionStatusPending, created.Data.Status)

	// Invoice is refused until the payment is approved.
	invoiceReq := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+itoa(created.Data.ID)+"/invoice", nil)
	invoiceResp, err := app.Test(invoiceReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, invoiceResp.StatusCode)

	approveReq := httptest.NewRequest(http.MethodPost, "/api/v1/admin/transactions/"+itoa(created.Data.ID)+"/approve", nil)
	approveResp, err := app.Test(approveReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, approveResp.StatusCode)

	var approved struct {
		Data dto.TransactionResponse `json:"data"`
	}
	decodeResponse(t, approveResp, &approved)
	require.Equal(t, models.TransactionStatusPaid, approved.Data.Status)

	// A second approval hits the terminal-state guard.
	repeatResp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/admin/transactions/"+itoa(created.Data.ID)+"/approve", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, repeatResp.StatusCode)

	// Approval enrolls the student.
	var enrollmentCount int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&enrollmentCount).Error)
	require.Equal(t, int64(1), enrollmentCount)

	// The invoice now downloads as a PDF attachment.
	invoiceResp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+itoa(created.Data.ID)+"/invoice", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, invoiceResp.StatusCode)
	require.Equal(t, "application/pdf", invoiceResp.Header.Get("Content-Type"))
	require.Contains(t, invoiceResp.Header.Get("Content-Disposition"), "_Invoice.pdf")

	pdf, err := io.ReadAll(invoiceResp.Body)
	require.NoError(t, err)
	require.NoError(t, invoiceResp.Body.Close())
	require.Equal(t, "%PDF", string(pdf[:4]))
}

func TestTransactionHandlerRejectsExcessMonths(t *testing.T) {
	db := openTestDB(t)
	student, course := seedStudentAndCourse(t, db)
	app := newTransactionApp(t, db, student.ID)

	resp := postTransactionForm(t, app, course.ID, "9", models.PaymentModeOffline)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.Contains(t, payload.Detail, "months")
}

func TestTransactionHandlerInvoiceRejectsMissingSubject(t *testing.T) {
	db := openTestDB(t)
	student, course := seedStudentAndCourse(t, db)

	transaction := models.Transaction{
		BillNo:        "CIT-20260701-AB12CD34",
		StudentID:     student.ID,
		CourseID:      course.ID,
		Months:        6,
		Amount:        6000,
		Discount:      600,
		NetPayable:    5400,
		ModeOfPayment: models.PaymentModeOffline,
		Status:        models.TransactionStatusPaid,
	}
	require.NoError(t, db.Create(&transaction).Error)

	// A request bound to no subject must not fall through to the admin
	// bypass and download someone's invoice.
	app := newTransactionApp(t, db, 0)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+itoa(transaction.ID)+"/invoice", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/billing"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/events"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/observability"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/cloudinary"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

var (
	// ErrTransactionNotFound indicates the requested payment record does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionFinalized indicates the transaction already reached a terminal state.
	ErrTransactionFinalized = errors.New("transaction already finalized")
	// ErrProofTypeNotAllowed indicates the payment proof is neither an image nor a PDF.
	ErrProofTypeNotAllowed = errors.New("payment proof must be an image or a PDF")
	// ErrProofRequired indicates an online payment was submitted without a proof file.
	ErrProofRequired = errors.New("payment proof is required for online payments")
)

// TransactionService exposes the payment lifecycle use cases.
type TransactionService interface {
	Create(ctx context.Context, studentID uint, payload dto.TransactionCreateRequest, proof *multipart.FileHeader) (dto.TransactionResponse, error)
	Get(ctx context.Context, id uint) (dto.TransactionResponse, error)
	GetByBillNo(ctx context.Context, billNo string) (dto.TransactionResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.TransactionResponse, error)
	List(ctx context.Context, filter repository.TransactionFilter) ([]dto.TransactionResponse, int64, error)
	Approve(ctx context.Context, id uint) (dto.TransactionResponse, error)
	Reject(ctx context.Context, id uint) (dto.TransactionResponse, error)
}

type transactionService struct {
	repo           repository.TransactionRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	validator      *validator.Validate
	storage        ObjectStorage
	retryCfg       retry.Config
	uploadTimeout  time.Duration
	publisher      *events.Publisher
	tracer         trace.Tracer
	logger         zerolog.Logger
	now            func() time.Time
}

// NewTransactionService builds a new transaction service.
func NewTransactionService(
	repo repository.TransactionRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	validate *validator.Validate,
	storage ObjectStorage,
	retryCfg retry.Config,
	uploadTimeout time.Duration,
	publisher *events.Publisher,
	logger zerolog.Logger,
) TransactionService {
	return &transactionService{
		repo:           repo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		validator:      validate,
		storage:        storage,
		retryCfg:       retryCfg,
		uploadTimeout:  uploadTimeout,
		publisher:      publisher,
		tracer:         otel.Tracer("transaction_service"),
		logger:         logger.With().Str("component", "transaction_service").Logger(),
		now:            time.Now,
	}
}

func (s *transactionService) Create(ctx context.Context, studentID uint, payload dto.TransactionCreateRequest, proof *multipart.FileHeader) (dto.TransactionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "transaction.create",
		trace.WithAttributes(attribute.Int64("student.id", int64(studentID))))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.TransactionResponse{}, err
	}

	course, err := s.courseRepo.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransactionResponse{}, ErrCourseNotFound
		}
		return dto.TransactionResponse{}, err
	}

	if payload.Months > course.DurationMonths {
		return dto.TransactionResponse{}, apperr.Validation("months",
			fmt.Sprintf("cannot pay for more than the %d month course duration", course.DurationMonths))
	}

	proofURL := ""
	if proof != nil {
		stored, err := s.storeProof(ctx, proof)
		if err != nil {
			return dto.TransactionResponse{}, err
		}
		proofURL = stored.URL
	} else if payload.ModeOfPayment == models.PaymentModeOnline {
		return dto.TransactionResponse{}, ErrProofRequired
	}

	quote := billing.ComputeQuote(course.FeePerMonth, payload.Months, course.DurationMonths)

	transaction := models.Transaction{
		BillNo:          s.generateBillNo(),
		StudentID:       studentID,
		CourseID:        payload.CourseID,
		Months:          payload.Months,
		Amount:          quote.Amount,
		Discount:        quote.Discount,
		NetPayable:      quote.NetPayable,
		ModeOfPayment:   payload.ModeOfPayment,
		Status:          models.TransactionStatusPending,
		PaymentProofURL: proofURL,
	}

	if err := s.repo.Create(ctx, &transaction); err != nil {
		return dto.TransactionResponse{}, translateConflict(err, "bill number already exists")
	}

	observability.Transactions().WithLabelValues(transaction.Status).Inc()
	span.SetAttributes(attribute.String("transaction.bill_no", transaction.BillNo))

	s.logger.Info().
		Str("bill_no", transaction.BillNo).
		Uint("student_id", studentID).
		Uint("course_id", payload.CourseID).
		Float64("net_payable", transaction.NetPayable).
		Msg("transaction created")

	transaction.Course = course
	return dto.NewTransactionResponse(transaction), nil
}

func (s *transactionService) Get(ctx context.Context, id uint) (dto.TransactionResponse, error) {
	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransactionResponse{}, ErrTransactionNotFound
		}
		return dto.TransactionResponse{}, err
	}

	return dto.NewTransactionResponse(transaction), nil
}

func (s *transactionService) GetByBillNo(ctx context.Context, billNo string) (dto.TransactionResponse, error) {
	transaction, err := s.repo.GetByBillNo(ctx, billNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransactionResponse{}, ErrTransactionNotFound
		}
		return dto.TransactionResponse{}, err
	}

	return dto.NewTransactionResponse(transaction), nil
}

func (s *transactionService) ListByStudent(ctx context.Context, studentID uint) ([]dto.TransactionResponse, error) {
	transactions, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewTransactionResponseSlice(transactions), nil
}

func (s *transactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]dto.TransactionResponse, int64, error) {
	transactions, total, err := s.repo.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewTransactionResponseSlice(transactions), total, nil
}

func (s *transactionService) Approve(ctx context.Context, id uint) (dto.TransactionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "transaction.approve",
		trace.WithAttributes(attribute.Int64("transaction.id", int64(id))))
	defer span.End()

	transaction, err := s.finalize(ctx, id, models.TransactionStatusPaid)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	// Approval implies enrollment; a second approval for the same course
	// must not create a duplicate pair.
	if err := s.ensureEnrollment(ctx, transaction.StudentID, transaction.CourseID); err != nil {
		s.logger.Error().Err(err).Str("bill_no", transaction.BillNo).Msg("failed to ensure enrollment after approval")
	}

	s.publisher.TransactionApproved(events.TransactionEvent{
		BillNo:     transaction.BillNo,
		StudentID:  transaction.StudentID,
		CourseID:   transaction.CourseID,
		Status:     transaction.Status,
		NetPayable: transaction.NetPayable,
		OccurredAt: s.now().UTC(),
	})

	s.logger.Info().Str("bill_no", transaction.BillNo).Msg("transaction approved")

	return dto.NewTransactionResponse(transaction), nil
}

func (s *transactionService) Reject(ctx context.Context, id uint) (dto.TransactionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "transaction.reject",
		trace.WithAttributes(attribute.Int64("transaction.id", int64(id))))
	defer span.End()

	transaction, err := s.finalize(ctx, id, models.TransactionStatusRejected)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	s.publisher.TransactionRejected(events.TransactionEvent{
		BillNo:     transaction.BillNo,
		StudentID:  transaction.StudentID,
		CourseID:   transaction.CourseID,
		Status:     transaction.Status,
		NetPayable: transaction.NetPayable,
		OccurredAt: s.now().UTC(),
	})

	s.logger.Info().Str("bill_no", transaction.BillNo).Msg("transaction rejected")

	return dto.NewTransactionResponse(transaction), nil
}

// finalize moves a pending transaction into the given terminal status.
func (s *transactionService) finalize(ctx context.Context, id uint, status string) (models.Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, err
	}

	if transaction.IsTerminal() {
		return models.Transaction{}, ErrTransactionFinalized
	}

	transaction.Status = status
	if err := s.repo.Update(ctx, &transaction); err != nil {
		return models.Transaction{}, err
	}

	observability.Transactions().WithLabelValues(status).Inc()

	return transaction, nil
}

func (s *transactionService) ensureEnrollment(ctx context.Context, studentID, courseID uint) error {
	exists, err := s.enrollmentRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	enrollment := models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(ctx, &enrollment); err != nil {
		// A concurrent approval may have enrolled the pair already.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	return nil
}

func (s *transactionService) storeProof(ctx context.Context, proof *multipart.FileHeader) (cloudinary.StoredObject, error) {
	payload, err := readUpload(proof)
	if err != nil {
		return cloudinary.StoredObject{}, err
	}

	detected := mimetype.Detect(payload).String()
	if !strings.HasPrefix(detected, "image/") && detected != "application/pdf" {
		return cloudinary.StoredObject{}, ErrProofTypeNotAllowed
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	cfg := s.retryCfg
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("proof upload failed, retrying")
	}

	var stored cloudinary.StoredObject
	err = retry.Do(ctx, cfg, func(ctx context.Context) error {
		result, err := s.storage.Store(ctx, fmt.Sprintf("proof_%s", uuid.NewString()), bytes.NewReader(payload))
		if err != nil {
			return err
		}
		stored = result
		return nil
	})
	if err != nil {
		return cloudinary.StoredObject{}, asTransportError(err)
	}

	return stored, nil
}

// generateBillNo derives a human-traceable bill number: date plus a short
// random suffix, e.g. CIT-20260901-5F2A91BC.
func (s *transactionService) generateBillNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CIT-%s-%s", s.now().Format("20060102"), suffix)
}

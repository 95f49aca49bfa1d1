package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/observability"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/document"
)

var (
	// ErrInvoiceUnavailable indicates the transaction has not been approved yet.
	ErrInvoiceUnavailable = errors.New("invoice is only available for paid transactions")
	// ErrInvoiceForbidden indicates the transaction belongs to another student.
	ErrInvoiceForbidden = errors.New("transaction belongs to another student")
)

// InvoiceService renders downloadable invoices for approved payments.
type InvoiceService interface {
	// Render produces the invoice PDF for a transaction. A non-zero
	// studentID restricts access to that student's own transactions;
	// zero means an admin caller.
	Render(ctx context.Context, transactionID, studentID uint) (dto.ArtifactResponse, error)
}

type invoiceService struct {
	repo      repository.TransactionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewInvoiceService builds a new invoice service.
func NewInvoiceService(repo repository.TransactionRepository, validate *validator.Validate, logger zerolog.Logger) InvoiceService {
	return &invoiceService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "invoice_service").Logger(),
	}
}

func (s *invoiceService) Render(ctx context.Context, transactionID, studentID uint) (dto.ArtifactResponse, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ArtifactResponse{}, ErrTransactionNotFound
		}
		return dto.ArtifactResponse{}, err
	}

	if studentID != 0 && transaction.StudentID != studentID {
		return dto.ArtifactResponse{}, ErrInvoiceForbidden
	}

	if transaction.Status != models.TransactionStatusPaid {
		return dto.ArtifactResponse{}, ErrInvoiceUnavailable
	}

	address := transaction.Student.LocalAddress.Data()
	if err := s.validator.Struct(address); err != nil {
		observability.DocumentsRendered().WithLabelValues("invoice", "error").Inc()
		return dto.ArtifactResponse{}, apperr.Validation("local_address",
			"student address is incomplete; update the profile before downloading the invoice")
	}

	invoice := document.BuildInvoice(document.InvoiceData{
		BillNo:          transaction.BillNo,
		TransactionID:   transaction.ID,
		IssueDate:       transaction.UpdatedAt,
		StudentName:     transaction.Student.Name,
		RollNumber:      transaction.Student.RollNumber,
		Mobile:          transaction.Student.Mobile,
		Address:         address.Format(),
		CourseTitle:     transaction.Course.Title,
		DurationMonths:  transaction.Course.DurationMonths,
		FeePerMonth:     transaction.Course.FeePerMonth,
		MonthsPaid:      transaction.Months,
		Discount:        transaction.Discount,
		NetPayable:      transaction.NetPayable,
		PaymentMode:     transaction.ModeOfPayment,
		Status:          transaction.Status,
		PaymentProofURL: transaction.PaymentProofURL,
	})

	content, err := invoice.Render()
	if err != nil {
		observability.DocumentsRendered().WithLabelValues("invoice", "error").Inc()
		return dto.ArtifactResponse{}, fmt.Errorf("failed to render invoice: %w", err)
	}

	observability.DocumentsRendered().WithLabelValues("invoice", "success").Inc()
	s.logger.Info().Str("bill_no", transaction.BillNo).Msg("invoice rendered")

	return dto.ArtifactResponse{
		FileName:    fmt.Sprintf("%s_Invoice.pdf", transaction.BillNo),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

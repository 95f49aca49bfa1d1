package dto

import (
	"time"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// TransactionCreateRequest is the payload a student submits a payment with.
// The payment proof file travels alongside as multipart form data.
type TransactionCreateRequest struct {
	CourseID      uint   `form:"course_id" json:"course_id" validate:"required,gt=0"`
	Months        int    `form:"months" json:"months" validate:"required,gt=0"`
	ModeOfPayment string `form:"mode_of_payment" json:"mode_of_payment" validate:"required,oneof=online offline"`
}

// TransactionResponse is the serialized payment record.
type TransactionResponse struct {
	ID              uint      `json:"id"`
	BillNo          string    `json:"bill_no"`
	StudentID       uint      `json:"student_id"`
	CourseID        uint      `json:"course_id"`
	CourseTitle     string    `json:"course_title,omitempty"`
	StudentName     string    `json:"student_name,omitempty"`
	RollNumber      string    `json:"roll_number,omitempty"`
	Months          int       `json:"months"`
	Amount          float64   `json:"amount"`
	Discount        float64   `json:"discount"`
	NetPayable      float64   `json:"net_payable"`
	ModeOfPayment   string    `json:"mode_of_payment"`
	Status          string    `json:"status"`
	PaymentProofURL string    `json:"payment_proof_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewTransactionResponse converts a model into a DTO.
func NewTransactionResponse(model models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              model.ID,
		BillNo:          model.BillNo,
		StudentID:       model.StudentID,
		CourseID:        model.CourseID,
		CourseTitle:     model.Course.Title,
		StudentName:     model.Student.Name,
		RollNumber:      model.Student.RollNumber,
		Months:          model.Months,
		Amount:          model.Amount,
		Discount:        model.Discount,
		NetPayable:      model.NetPayable,
		ModeOfPayment:   model.ModeOfPayment,
		Status:          model.Status,
		PaymentProofURL: model.PaymentProofURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewTransactionResponseSlice converts a slice of models into DTOs.
func NewTransactionResponseSlice(transactions []models.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, NewTransactionResponse(transaction))
	}

	return responses
}

// ArtifactResponse is a rendered downloadable document (invoice or ID card).
type ArtifactResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

package dto

import (
	"time"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// CertificateIssueRequest is the admin payload for issuing a certificate.
type CertificateIssueRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
}

// CertificateResponse is the public verification record.
type CertificateResponse struct {
	CertificateNumber string    `json:"certificate_number"`
	StudentName       string    `json:"student_name"`
	RollNumber        string    `json:"roll_number"`
	CourseTitle       string    `json:"course_title"`
	IssuedAt          time.Time `json:"issued_at"`
}

// VerificationResult is the explicit found/not-found outcome of a public
// certificate lookup. A missing record is a result, never an error.
type VerificationResult struct {
	Found       bool                 `json:"found"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

// NewCertificateResponse converts a model into a DTO.
func NewCertificateResponse(model models.Certificate) CertificateResponse {
	return CertificateResponse{
		CertificateNumber: model.CertificateNumber,
		StudentName:       model.Student.Name,
		RollNumber:        model.Student.RollNumber,
		CourseTitle:       model.Course.Title,
		IssuedAt:          model.IssuedAt,
	}
}

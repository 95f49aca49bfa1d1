package models

import "time"

// Transaction status values. A transaction starts pending and moves to
// exactly one terminal state via admin action.
const (
	TransactionStatusPending  = "pending approval"
	TransactionStatusPaid     = "paid"
	TransactionStatusRejected = "rejected"
)

// Payment modes.
const (
	PaymentModeOnline  = "online"
	PaymentModeOffline = "offline"
)

// Transaction records a payment submitted by a student for a course.
// Amount, Discount and NetPayable are fixed at creation time; only the
// status changes afterwards.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BillNo          string    `gorm:"size:64;uniqueIndex;not null" json:"bill_no"`
	StudentID       uint      `gorm:"not null;index" json:"student_id"`
	CourseID        uint      `gorm:"not null;index" json:"course_id"`
	Months          int       `gorm:"not null" json:"months"`
	Amount          float64   `gorm:"not null" json:"amount"`
	Discount        float64   `gorm:"not null" json:"discount"`
	NetPayable      float64   `gorm:"not null" json:"net_payable"`
	ModeOfPayment   string    `gorm:"size:16;not null" json:"mode_of_payment"`
	Status          string    `gorm:"size:24;default:'pending approval';index" json:"status"`
	PaymentProofURL string    `gorm:"size:512" json:"payment_proof_url,omitempty"`
	Student         Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course          Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsTerminal reports whether the transaction has reached a final state.
func (t Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusPaid || t.Status == TransactionStatusRejected
}

package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Address is the structured postal address stored on a student record.
// Every field is required; records with incomplete addresses must be fixed
// before they can be invoiced.
type Address struct {
	FlatHouseNo string `json:"flat_house_no" validate:"required"`
	Street      string `json:"street" validate:"required"`
	PO          string `json:"po" validate:"required"`
	PS          string `json:"ps" validate:"required"`
	District    string `json:"district" validate:"required"`
	State       string `json:"state" validate:"required"`
	Pincode     string `json:"pincode" validate:"required,numeric,len=6"`
}

// Format assembles the address into a single printable line.
func (a Address) Format() string {
	parts := []string{a.FlatHouseNo, a.Street, a.District, a.State}
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}

	line := strings.Join(filtered, ", ")
	if pin := strings.TrimSpace(a.Pincode); pin != "" {
		line = fmt.Sprintf("%s - %s", line, pin)
	}
	return line
}

// Student represents a registered learner.
type Student struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	RollNumber        string                      `gorm:"size:32;uniqueIndex;not null" json:"roll_number"`
	Name              string                      `gorm:"size:255;not null" json:"name"`
	Email             string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash      string                      `gorm:"size:255;not null" json:"-"`
	Mobile            string                      `gorm:"size:20" json:"mobile"`
	Gender            string                      `gorm:"size:16" json:"gender"`
	DateOfBirth       time.Time                   `json:"date_of_birth"`
	BloodGroup        string                      `gorm:"size:8" json:"blood_group"`
	PhotoURL          string                      `gorm:"size:512" json:"photo_url"`
	PhotoID           string                      `gorm:"size:255" json:"-"`
	VerificationToken string                      `gorm:"size:64;index" json:"-"`
	EmailVerified     bool                        `gorm:"default:false" json:"email_verified"`
	LocalAddress      datatypes.JSONType[Address] `json:"local_address"`
	PermanentAddress  datatypes.JSONType[Address] `json:"permanent_address"`
	Enrollments       []Enrollment                `gorm:"foreignKey:StudentID" json:"enrollments,omitempty"`
	Transactions      []Transaction               `gorm:"foreignKey:StudentID" json:"transactions,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

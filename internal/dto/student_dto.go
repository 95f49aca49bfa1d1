package dto

import (
	"time"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// AddressPayload mirrors the structured address value on requests.
type AddressPayload struct {
	FlatHouseNo string `json:"flat_house_no" validate:"required"`
	Street      string `json:"street" validate:"required"`
	PO          string `json:"po" validate:"required"`
	PS          string `json:"ps" validate:"required"`
	District    string `json:"district" validate:"required"`
	State       string `json:"state" validate:"required"`
	Pincode     string `json:"pincode" validate:"required,numeric,len=6"`
}

// ToModel converts the payload into the stored address value.
func (p AddressPayload) ToModel() models.Address {
	return models.Address{
		FlatHouseNo: p.FlatHouseNo,
		Street:      p.Street,
		PO:          p.PO,
		PS:          p.PS,
		District:    p.District,
		State:       p.State,
		Pincode:     p.Pincode,
	}
}

// StudentRegisterRequest is the payload a new student signs up with.
type StudentRegisterRequest struct {
	Name             string         `json:"name" validate:"required,min=3"`
	Email            string         `json:"email" validate:"required,email"`
	Password         string         `json:"password" validate:"required,min=8"`
	Mobile           string         `json:"mobile" validate:"required,numeric,len=10"`
	Gender           string         `json:"gender" validate:"required,oneof=male female other"`
	DateOfBirth      string         `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	BloodGroup       string         `json:"blood_group" validate:"omitempty,max=4"`
	LocalAddress     AddressPayload `json:"local_address" validate:"required"`
	PermanentAddress AddressPayload `json:"permanent_address" validate:"required"`
}

// StudentUpdateRequest is the partial profile edit payload.
type StudentUpdateRequest struct {
	Name             *string         `json:"name" validate:"omitempty,min=3"`
	Mobile           *string         `json:"mobile" validate:"omitempty,numeric,len=10"`
	BloodGroup       *string         `json:"blood_group" validate:"omitempty,max=4"`
	LocalAddress     *AddressPayload `json:"local_address" validate:"omitempty"`
	PermanentAddress *AddressPayload `json:"permanent_address" validate:"omitempty"`
}

// StudentResponse is the serialized representation returned to API clients.
type StudentResponse struct {
	ID               uint           `json:"id"`
	RollNumber       string         `json:"roll_number"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Mobile           string         `json:"mobile"`
	Gender           string         `json:"gender"`
	DateOfBirth      time.Time      `json:"date_of_birth"`
	BloodGroup       string         `json:"blood_group"`
	PhotoURL         string         `json:"photo_url"`
	EmailVerified    bool           `json:"email_verified"`
	LocalAddress     models.Address `json:"local_address"`
	PermanentAddress models.Address `json:"permanent_address"`
	CreatedAt        time.Time      `json:"created_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:               model.ID,
		RollNumber:       model.RollNumber,
		Name:             model.Name,
		Email:            model.Email,
		Mobile:           model.Mobile,
		Gender:           model.Gender,
		DateOfBirth:      model.DateOfBirth,
		BloodGroup:       model.BloodGroup,
		PhotoURL:         model.PhotoURL,
		EmailVerified:    model.EmailVerified,
		LocalAddress:     model.LocalAddress.Data(),
		PermanentAddress: model.PermanentAddress.Data(),
		CreatedAt:        model.CreatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}

// internal/models/forms.go
package models

import "time"

// SubmitRequestForm is the citizen creation form. Exactly one of the
// type-specific sections must be filled, matching LicenseType.
type SubmitRequestForm struct {
	LicenseType LicenseType         `json:"license_type" validate:"required,license_type"`
	Applicant   ApplicantInfo       `json:"applicant"`
	New         *NewLicenseForm     `json:"new,omitempty"`
	Renewal     *RenewalForm        `json:"renewal,omitempty"`
	Extension   *CapacityChangeForm `json:"extension,omitempty"`
	Reduction   *CapacityChangeForm `json:"reduction,omitempty"`
	Attachments []string            `json:"attachments,omitempty" validate:"omitempty,max=20,dive,required"`
}

type ApplicantInfo struct {
	FullName   string `json:"full_name" validate:"required,max=150"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	NationalID string `json:"national_id" validate:"required,min=5,max=20"`
}

type Capacity struct {
	Value float64 `json:"value" validate:"required,gt=0"`
	Unit  string  `json:"unit" validate:"required,capacity_unit"`
}

// KW returns the capacity in kilowatts.
func (c Capacity) KW() float64 {
	if c.Unit == "MW" {
		return c.Value * 1000
	}
	return c.Value
}

type NewLicenseForm struct {
	ProjectName    string   `json:"project_name" validate:"required,max=200"`
	ProjectAddress string   `json:"project_address" validate:"required,max=500"`
	Governorate    string   `json:"governorate" validate:"required"`
	EnergyType     string   `json:"energy_type" validate:"required,oneof=solar wind hydro biomass geothermal"`
	Capacity       Capacity `json:"capacity"`
	LandAreaM2     float64  `json:"land_area_m2,omitempty" validate:"omitempty,gt=0"`
}

type RenewalForm struct {
	LicenseNumber   string    `json:"license_number" validate:"required"`
	CurrentExpiry   time.Time `json:"current_expiry" validate:"required"`
	RequestedExpiry time.Time `json:"requested_expiry" validate:"required,gtfield=CurrentExpiry"`
	Notes           string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CapacityChangeForm serves both extension and reduction requests.
type CapacityChangeForm struct {
	LicenseNumber     string   `json:"license_number" validate:"required"`
	CurrentCapacity   Capacity `json:"current_capacity"`
	RequestedCapacity Capacity `json:"requested_capacity"`
	Reason            string   `json:"reason" validate:"required,max=1000"`
}

// CreateRequestBody is what the backend receives for a creation call.
type CreateRequestBody struct {
	LicenseType LicenseType   `json:"licenseType"`
	Applicant   ApplicantInfo `json:"applicant"`
	Payload     interface{}   `json:"payload"`
	Attachments []string      `json:"attachments,omitempty"`
}

package models

import "time"

// Professional statuses.
const (
	ProfessionalActive   = "active"
	ProfessionalInactive = "inactive"
)

// Professional is the extended profile for staff members who serve clients.
// Records live under "profissional:{id}". A professional may exist without a
// linked user account (no system access yet); a user with the profissional
// role links to exactly one professional via User.ProfessionalID.
type Professional struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Category is the service area, e.g. "cabelo", "unhas", "estetica".
	Category string `json:"category,omitempty"`

	// Specialties lists the individual services this professional performs.
	Specialties []string `json:"specialties,omitempty"`

	// Status is "active" or "inactive".
	Status string `json:"status"`

	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`

	// WorkDays holds weekday names in the salon's locale, e.g. "segunda".
	WorkDays  []string `json:"workDays,omitempty"`
	StartTime string   `json:"startTime,omitempty"`
	EndTime   string   `json:"endTime,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

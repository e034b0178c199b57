package dto

import "time"

// AppointmentRequest payload from the public site. Advisor may be a slug,
// empty, or the "rotation" sentinel.
type AppointmentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Advisor string `json:"advisor"`
	Message string `json:"message"`
}

// AssignedAdvisor summarizes who will follow up on the lead.
type AssignedAdvisor struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// AppointmentResponse confirms a submission.
type AppointmentResponse struct {
	ID          string          `json:"id"`
	Advisor     AssignedAdvisor `json:"advisor"`
	AssignedVia string          `json:"assigned_via"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AppointmentRecord is the admin listing shape.
type AppointmentRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Service     string    `json:"service"`
	Message     string    `json:"message"`
	AdvisorSlug string    `json:"advisor_slug"`
	AssignedVia string    `json:"assigned_via"`
	CreatedAt   time.Time `json:"created_at"`
}

package domain

import "time"

// AssignmentMethod records how an appointment ended up with its advisor.
type AssignmentMethod string

const (
	AssignmentExplicit AssignmentMethod = "EXPLICIT"
	AssignmentRotation AssignmentMethod = "ROTATION"
)

// AppointmentRequest is the transient submission from the public site. The
// advisor slug may be empty or the "rotation" sentinel, both meaning no
// preference.
type AppointmentRequest struct {
	Name        string
	Email       string
	Phone       string
	Service     string
	AdvisorSlug string
	Message     string
}

// Appointment is a persisted consultation lead together with the advisor it
// was routed to.
type Appointment struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Service     string
	Message     string
	AdvisorID   string
	AdvisorSlug string
	AssignedVia AssignmentMethod
	CreatedAt   time.Time
}

package events

import (
	"time"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentReceived EventType = "appointment_received"
	EventLeadAssigned        EventType = "lead_assigned"
	EventTeamMemberCreated   EventType = "team_member_created"
	EventTeamMemberUpdated   EventType = "team_member_updated"
	EventTeamMemberDeleted   EventType = "team_member_deleted"
)

// Event represents a domain event emitted by services. Subject carries the
// id of the record the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AppointmentReceivedPayload payload.
type AppointmentReceivedPayload struct {
	Service     string `json:"service"`
	AdvisorSlug string `json:"advisor_slug"`
	Email       string `json:"email"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	AdvisorID    string                  `json:"advisor_id"`
	AdvisorSlug  string                  `json:"advisor_slug"`
	AdvisorEmail string                  `json:"advisor_email"`
	AssignedVia  domain.AssignmentMethod `json:"assigned_via"`
}

// TeamMemberChangedPayload payload for create/update/delete.
type TeamMemberChangedPayload struct {
	Slug string `json:"slug"`
	Name string `json:"name,omitempty"`
}

package events

import (
	"time"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated  EventType = "lead_created"
	EventLeadUpdated  EventType = "lead_updated"
	EventLeadDeleted  EventType = "lead_deleted"
	EventLeadImported EventType = "lead_imported"
)

// Actor encapsulates the caller behind an event.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	City         domain.City         `json:"city"`
	PropertyType domain.PropertyType `json:"property_type"`
	Status       domain.LeadStatus   `json:"status"`
}

// LeadUpdatedPayload payload.
type LeadUpdatedPayload struct {
	OldStatus domain.LeadStatus `json:"old_status"`
	NewStatus domain.LeadStatus `json:"new_status"`
}

// LeadDeletedPayload payload.
type LeadDeletedPayload struct {
	FullName string `json:"full_name"`
}

// LeadImportedPayload payload.
type LeadImportedPayload struct {
	Count int `json:"count"`
}

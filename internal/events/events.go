// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"stayportal_backend/platform/events"
	"stayportal_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a public call request is accepted.
type LeadCreated struct {
	BaseEvent
	LeadID             uuid.UUID  `json:"leadId"`
	LeadName           string     `json:"leadName"`
	AccommodationID    uuid.UUID  `json:"accommodationId"`
	AccommodationName  string     `json:"accommodationName"`
	AssignedOperatorID *uuid.UUID `json:"assignedOperatorId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead is assigned or reassigned to an operator.
type LeadAssigned struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	LeadName   string    `json:"leadName"`
	OperatorID uuid.UUID `json:"operatorId"`
	AssignedBy uuid.UUID `json:"assignedBy"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadStatusChanged is published after every status transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	OperatorID uuid.UUID `json:"operatorId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// CallbackReminderDue is published when a scheduled callback enters the
// reminder window and the reminder has been claimed for delivery.
type CallbackReminderDue struct {
	BaseEvent
	LeadID            uuid.UUID `json:"leadId"`
	LeadName          string    `json:"leadName"`
	AccommodationName string    `json:"accommodationName"`
	OperatorID        uuid.UUID `json:"operatorId"`
	ScheduledFor      time.Time `json:"scheduledFor"`
}

func (e CallbackReminderDue) EventName() string { return "leads.callback.reminder_due" }

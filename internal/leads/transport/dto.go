// Package transport defines the JSON request/response shapes for the call
// request API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCallRequestRequest is the public intake payload a guest submits for
// an accommodation.
type CreateCallRequestRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	Phone             string  `json:"phone" validate:"required,min=6,max=20"`
	Email             string  `json:"email" validate:"omitempty,email"`
	PreferredCallTime string  `json:"preferredCallTime" validate:"omitempty,max=100"`
	Message           string  `json:"message" validate:"omitempty,max=2000"`
	SourceURL         string  `json:"sourceUrl" validate:"omitempty,max=500"`
	Priority          *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// AssignRequest hands a lead to a specific operator.
type AssignRequest struct {
	OperatorID uuid.UUID `json:"operatorId" validate:"required"`
}

// SetPriorityRequest changes a lead's urgency level.
type SetPriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

// TransitionRequest moves a lead to a new status.
type TransitionRequest struct {
	Status          string   `json:"status" validate:"required,oneof=NEW CONTACTED QUALIFIED FOLLOW_UP SCHEDULED CONVERTED LOST INVALID"`
	Reason          string   `json:"reason" validate:"omitempty,max=500"`
	Notes           string   `json:"notes" validate:"omitempty,max=2000"`
	ConversionValue *float64 `json:"conversionValue" validate:"omitempty,min=0"`
	Force           bool     `json:"force"`
}

// AddInteractionRequest appends an entry to a lead's interaction ledger.
type AddInteractionRequest struct {
	Type            string     `json:"type" validate:"required,oneof=CALL EMAIL SMS NOTE STATUS_CHANGE"`
	Outcome         string     `json:"outcome" validate:"omitempty,max=200"`
	DurationSeconds *int       `json:"durationSeconds" validate:"omitempty,min=0"`
	Notes           string     `json:"notes" validate:"required,min=1,max=2000"`
	NextAction      string     `json:"nextAction" validate:"omitempty,max=500"`
	FollowUpDate    *time.Time `json:"followUpDate"`
}

// ScheduleCallbackRequest books a callback on a lead.
type ScheduleCallbackRequest struct {
	ScheduledCallDate time.Time `json:"scheduledCallDate" validate:"required"`
	Notes             string    `json:"notes" validate:"omitempty,max=2000"`
}

// ListLeadsQuery holds the filters accepted by the lead list endpoint.
type ListLeadsQuery struct {
	Status          string `form:"status" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED FOLLOW_UP SCHEDULED CONVERTED LOST INVALID"`
	Priority        string `form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	OperatorID      string `form:"operatorId" validate:"omitempty,uuid"`
	AccommodationID string `form:"accommodationId" validate:"omitempty,uuid"`
	From            string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int    `form:"offset" validate:"omitempty,min=0"`
}

// LeadResponse is the full lead representation.
type LeadResponse struct {
	ID                 uuid.UUID  `json:"id"`
	AccommodationID    uuid.UUID  `json:"accommodationId"`
	AccommodationName  string     `json:"accommodationName"`
	Name               string     `json:"name"`
	Phone              string     `json:"phone"`
	Email              *string    `json:"email,omitempty"`
	PreferredCallTime  *string    `json:"preferredCallTime,omitempty"`
	Message            *string    `json:"message,omitempty"`
	SourceURL          *string    `json:"sourceUrl,omitempty"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	AssignedOperatorID *uuid.UUID `json:"assignedOperatorId,omitempty"`
	AssignedAt         *time.Time `json:"assignedAt,omitempty"`
	LastContactedAt    *time.Time `json:"lastContactedAt,omitempty"`
	ConvertedAt        *time.Time `json:"convertedAt,omitempty"`
	ConversionValue    *float64   `json:"conversionValue,omitempty"`
	ScheduledCallDate  *time.Time `json:"scheduledCallDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// LeadListItemResponse is a lead row in list views, with ledger context.
type LeadListItemResponse struct {
	LeadResponse
	InteractionCount  int                  `json:"interactionCount"`
	LatestInteraction *InteractionSnippet  `json:"latestInteraction,omitempty"`
}

// InteractionSnippet is the latest ledger entry shown inline on list rows.
type InteractionSnippet struct {
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadListResponse is a page of leads.
type LeadListResponse struct {
	Items  []LeadListItemResponse `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// LeadDetailResponse is a lead with its status trail and ledger.
type LeadDetailResponse struct {
	LeadResponse
	StatusHistory []StatusHistoryResponse `json:"statusHistory"`
	Interactions  []InteractionResponse   `json:"interactions"`
}

// StatusHistoryResponse is one entry in a lead's status trail.
type StatusHistoryResponse struct {
	ID         uuid.UUID  `json:"id"`
	FromStatus *string    `json:"fromStatus,omitempty"`
	ToStatus   string     `json:"toStatus"`
	Reason     *string    `json:"reason,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	OperatorID *uuid.UUID `json:"operatorId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// InteractionResponse is one entry in a lead's interaction ledger.
type InteractionResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Outcome         *string    `json:"outcome,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
	Notes           string     `json:"notes"`
	NextAction      *string    `json:"nextAction,omitempty"`
	FollowUpDate    *time.Time `json:"followUpDate,omitempty"`
	OperatorID      *uuid.UUID `json:"operatorId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

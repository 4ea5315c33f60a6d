// Package scheduling handles callback booking and the operator-facing
// callback queues.
package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
)

// Repository is the data access the scheduling service needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ScheduleCallback(ctx context.Context, params repository.ScheduleCallbackParams) (repository.Lead, error)
	ListScheduledCallbacks(ctx context.Context, operatorID *uuid.UUID) ([]repository.Lead, error)
	ListOverdueCallbacks(ctx context.Context, operatorID *uuid.UUID) ([]repository.Lead, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ScheduleCallback books a callback on a lead. Leads already converted, lost
// or marked invalid cannot take callbacks. Booking moves the lead to
// SCHEDULED and re-arms the reminder.
func (s *Service) ScheduleCallback(ctx context.Context, leadID uuid.UUID, req transport.ScheduleCallbackRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	if req.ScheduledCallDate.IsZero() {
		return transport.LeadResponse{}, apperr.Validation("scheduledCallDate is required")
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if domain.IsTerminal(lead.Status) {
		return transport.LeadResponse{}, apperr.Validation("cannot schedule a callback on a closed lead")
	}

	params := repository.ScheduleCallbackParams{
		LeadID:     leadID,
		CallAt:     req.ScheduledCallDate,
		OperatorID: &actorID,
	}
	if req.Notes != "" {
		params.Notes = &req.Notes
	}

	updated, err := s.repo.ScheduleCallback(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(updated), nil
}

// ListScheduled returns upcoming callbacks, soonest first. A nil operator
// shows everyone's queue.
func (s *Service) ListScheduled(ctx context.Context, operatorID *uuid.UUID) ([]transport.LeadResponse, error) {
	leads, err := s.repo.ListScheduledCallbacks(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return toResponses(leads), nil
}

// ListOverdue returns callbacks whose date has passed without resolution.
func (s *Service) ListOverdue(ctx context.Context, operatorID *uuid.UUID) ([]transport.LeadResponse, error) {
	leads, err := s.repo.ListOverdueCallbacks(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return toResponses(leads), nil
}

func toResponses(leads []repository.Lead) []transport.LeadResponse {
	resp := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		resp = append(resp, transport.ToLeadResponse(lead))
	}
	return resp
}

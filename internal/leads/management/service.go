// Package management covers the operator-facing lifecycle of a lead:
// listing, assignment, priority, status transitions and the interaction
// ledger.
package management

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
)

// Repository is the data access the management service needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.LeadListItem, int, error)
	Assign(ctx context.Context, leadID, operatorID uuid.UUID) error
	SetPriority(ctx context.Context, leadID uuid.UUID, priority domain.Priority) error
	TransitionStatus(ctx context.Context, params repository.TransitionParams) (repository.Lead, error)
	AddInteraction(ctx context.Context, params repository.AddInteractionParams) (repository.Interaction, error)
	ListInteractions(ctx context.Context, params repository.ListInteractionsParams) ([]repository.Interaction, error)
	ListStatusHistory(ctx context.Context, leadID uuid.UUID) ([]repository.StatusHistoryEntry, error)
}

// OperatorReader resolves operators for assignment checks.
type OperatorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (directory.Operator, error)
}

type Service struct {
	repo      Repository
	operators OperatorReader
	bus       events.Bus
}

func New(repo Repository, operators OperatorReader, bus events.Bus) *Service {
	return &Service{repo: repo, operators: operators, bus: bus}
}

// List returns a filtered page of leads, urgent first within each page.
func (s *Service) List(ctx context.Context, query transport.ListLeadsQuery) (transport.LeadListResponse, error) {
	params := repository.ListParams{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Status != "" {
		status := domain.Status(query.Status)
		params.Status = &status
	}
	if query.Priority != "" {
		priority := domain.Priority(query.Priority)
		params.Priority = &priority
	}
	if query.OperatorID != "" {
		id, err := uuid.Parse(query.OperatorID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid operatorId")
		}
		params.AssignedOperatorID = &id
	}
	if query.AccommodationID != "" {
		id, err := uuid.Parse(query.AccommodationID)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid accommodationId")
		}
		params.AccommodationID = &id
	}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid from date")
		}
		params.CreatedFrom = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid to date")
		}
		// Inclusive end of day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		params.CreatedTo = &end
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	resp := transport.LeadListResponse{
		Items:  make([]transport.LeadListItemResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: params.Offset,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, transport.ToLeadListItemResponse(item))
	}
	return resp, nil
}

// GetByID returns a lead with its full status trail and interaction ledger.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadDetailResponse{}, err
	}

	history, err := s.repo.ListStatusHistory(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	interactions, err := s.repo.ListInteractions(ctx, repository.ListInteractionsParams{LeadID: id})
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	detail := transport.LeadDetailResponse{
		LeadResponse:  transport.ToLeadResponse(lead),
		StatusHistory: make([]transport.StatusHistoryResponse, 0, len(history)),
		Interactions:  make([]transport.InteractionResponse, 0, len(interactions)),
	}
	for _, e := range history {
		detail.StatusHistory = append(detail.StatusHistory, transport.ToStatusHistoryResponse(e))
	}
	for _, i := range interactions {
		detail.Interactions = append(detail.Interactions, transport.ToInteractionResponse(i))
	}
	return detail, nil
}

// Assign hands a lead to an operator and records the handover as a NOTE in
// the ledger.
func (s *Service) Assign(ctx context.Context, leadID uuid.UUID, req transport.AssignRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	operator, err := s.operators.GetByID(ctx, req.OperatorID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("operator not found")
		}
		return transport.LeadResponse{}, err
	}
	if !operator.IsActive {
		return transport.LeadResponse{}, apperr.Validation("operator is not active")
	}

	if err := s.repo.Assign(ctx, leadID, req.OperatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	_, err = s.repo.AddInteraction(ctx, repository.AddInteractionParams{
		LeadID:     leadID,
		Type:       domain.InteractionNote,
		Notes:      fmt.Sprintf("Reassigned to %s", operator.Name),
		OperatorID: &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		OperatorID: req.OperatorID,
		AssignedBy: actorID,
	})

	return transport.ToLeadResponse(lead), nil
}

// SetPriority changes a lead's urgency and records the change as a NOTE.
// Unlike assignment, no notification goes out.
func (s *Service) SetPriority(ctx context.Context, leadID uuid.UUID, req transport.SetPriorityRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	priority := domain.Priority(req.Priority)
	if !domain.IsKnownPriority(priority) {
		return transport.LeadResponse{}, apperr.Validation("unknown priority")
	}

	if err := s.repo.SetPriority(ctx, leadID, priority); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	_, err := s.repo.AddInteraction(ctx, repository.AddInteractionParams{
		LeadID:     leadID,
		Type:       domain.InteractionNote,
		Notes:      fmt.Sprintf("Priority changed to %s", priority),
		OperatorID: &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// Transition moves a lead to a new status. Moves the transition rules
// reject come back as validation errors, unless force is set to allow an
// admin correction.
func (s *Service) Transition(ctx context.Context, leadID uuid.UUID, req transport.TransitionRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	to := domain.Status(req.Status)
	if !domain.IsKnownStatus(to) {
		return transport.LeadResponse{}, apperr.Validation("unknown status")
	}
	if to == domain.StatusConverted && req.ConversionValue != nil && *req.ConversionValue < 0 {
		return transport.LeadResponse{}, apperr.Validation("conversion value cannot be negative")
	}

	params := repository.TransitionParams{
		LeadID:          leadID,
		ToStatus:        to,
		OperatorID:      &actorID,
		ConversionValue: req.ConversionValue,
		Force:           req.Force,
	}
	if req.Reason != "" {
		params.Reason = &req.Reason
	}
	if req.Notes != "" {
		params.Notes = &req.Notes
	}

	before, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.TransitionStatus(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrInvalidTransition):
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		FromStatus: string(before.Status),
		ToStatus:   string(lead.Status),
		OperatorID: actorID,
	})

	return transport.ToLeadResponse(lead), nil
}

// AddInteraction appends an entry to a lead's ledger on behalf of the actor.
func (s *Service) AddInteraction(ctx context.Context, leadID uuid.UUID, req transport.AddInteractionRequest, actorID uuid.UUID) (transport.InteractionResponse, error) {
	kind := domain.InteractionType(req.Type)
	if !domain.IsKnownInteractionType(kind) {
		return transport.InteractionResponse{}, apperr.Validation("unknown interaction type")
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.InteractionResponse{}, apperr.NotFound("lead not found")
		}
		return transport.InteractionResponse{}, err
	}

	params := repository.AddInteractionParams{
		LeadID:       leadID,
		Type:         kind,
		Notes:        req.Notes,
		FollowUpDate: req.FollowUpDate,
		OperatorID:   &actorID,
	}
	if req.Outcome != "" {
		params.Outcome = &req.Outcome
	}
	if req.NextAction != "" {
		params.NextAction = &req.NextAction
	}
	params.DurationSeconds = req.DurationSeconds

	interaction, err := s.repo.AddInteraction(ctx, params)
	if err != nil {
		return transport.InteractionResponse{}, err
	}
	return transport.ToInteractionResponse(interaction), nil
}

// ListInteractions returns a lead's ledger, newest first.
func (s *Service) ListInteractions(ctx context.Context, leadID uuid.UUID, kind *domain.InteractionType, limit, offset int) ([]transport.InteractionResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	interactions, err := s.repo.ListInteractions(ctx, repository.ListInteractionsParams{
		LeadID: leadID,
		Type:   kind,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]transport.InteractionResponse, 0, len(interactions))
	for _, i := range interactions {
		resp = append(resp, transport.ToInteractionResponse(i))
	}
	return resp, nil
}

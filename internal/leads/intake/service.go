// Package intake handles public call request submission: guests ask an
// accommodation to call them back, and the request becomes a lead assigned
// to the least-loaded operator.
package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"stayportal_backend/internal/accommodations"
	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
	"stayportal_backend/platform/phone"
)

// Repository is the lead persistence the intake service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
}

// AccommodationReader resolves the listing a call request targets.
type AccommodationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (accommodations.Accommodation, error)
}

// OperatorRoster provides the workload snapshot used for auto-assignment.
type OperatorRoster interface {
	ListActive(ctx context.Context) ([]directory.Operator, error)
}

type Service struct {
	repo    Repository
	listing AccommodationReader
	roster  OperatorRoster
	bus     events.Bus
}

func New(repo Repository, listing AccommodationReader, roster OperatorRoster, bus events.Bus) *Service {
	return &Service{repo: repo, listing: listing, roster: roster, bus: bus}
}

// RequestMeta carries submission metadata captured at the HTTP edge.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Create accepts a public call request against an accommodation. The listing
// must be approved and active. The new lead starts in NEW and is assigned to
// the active operator with the fewest open leads; with an empty roster it
// stays unassigned.
func (s *Service) Create(ctx context.Context, accommodationID uuid.UUID, req transport.CreateCallRequestRequest, meta RequestMeta) (transport.LeadResponse, error) {
	acc, err := s.listing.GetByID(ctx, accommodationID)
	if err != nil {
		if errors.Is(err, accommodations.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("accommodation not found")
		}
		return transport.LeadResponse{}, err
	}
	if !acc.AcceptsCallRequests() {
		return transport.LeadResponse{}, apperr.Validation("accommodation is not accepting call requests")
	}

	priority := domain.PriorityMedium
	if req.Priority != nil {
		priority = domain.Priority(*req.Priority)
		if !domain.IsKnownPriority(priority) {
			return transport.LeadResponse{}, apperr.Validation("unknown priority")
		}
	}

	params := repository.CreateLeadParams{
		AccommodationID: accommodationID,
		Name:            req.Name,
		Phone:           phone.NormalizeE164(req.Phone),
		Priority:        priority,
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.PreferredCallTime != "" {
		params.PreferredCallTime = &req.PreferredCallTime
	}
	if req.Message != "" {
		params.Message = &req.Message
	}
	if req.SourceURL != "" {
		params.SourceURL = &req.SourceURL
	}
	if meta.IPAddress != "" {
		params.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		params.UserAgent = &meta.UserAgent
	}

	operators, err := s.roster.ListActive(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	loads := make([]domain.OperatorLoad, 0, len(operators))
	for _, op := range operators {
		loads = append(loads, domain.OperatorLoad{OperatorID: op.ID, ActiveLeads: op.ActiveLeads})
	}
	params.AssignedOperatorID = domain.PickLeastLoaded(loads)

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:          events.NewBaseEvent(),
		LeadID:             lead.ID,
		LeadName:           lead.Name,
		AccommodationID:    lead.AccommodationID,
		AccommodationName:  lead.AccommodationName,
		AssignedOperatorID: lead.AssignedOperatorID,
	})

	return transport.ToLeadResponse(lead), nil
}

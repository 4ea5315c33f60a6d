package management

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
)

type fakeRepo struct {
	lead         repository.Lead
	leadErr      error
	interactions []repository.AddInteractionParams
	history      []repository.StatusHistoryEntry
	assigned     *uuid.UUID
	priority     *domain.Priority
	transitioned *repository.TransitionParams
}

func (f *fakeRepo) GetByID(context.Context, uuid.UUID) (repository.Lead, error) {
	return f.lead, f.leadErr
}

func (f *fakeRepo) List(context.Context, repository.ListParams) ([]repository.LeadListItem, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Assign(_ context.Context, _ uuid.UUID, operatorID uuid.UUID) error {
	f.assigned = &operatorID
	return nil
}

func (f *fakeRepo) SetPriority(_ context.Context, _ uuid.UUID, priority domain.Priority) error {
	f.priority = &priority
	return nil
}

func (f *fakeRepo) TransitionStatus(_ context.Context, params repository.TransitionParams) (repository.Lead, error) {
	if !params.Force && !domain.CanTransition(f.lead.Status, params.ToStatus) {
		return repository.Lead{}, repository.ErrInvalidTransition
	}
	f.transitioned = &params
	lead := f.lead
	lead.Status = params.ToStatus
	return lead, nil
}

func (f *fakeRepo) AddInteraction(_ context.Context, params repository.AddInteractionParams) (repository.Interaction, error) {
	f.interactions = append(f.interactions, params)
	return repository.Interaction{
		ID:     uuid.New(),
		LeadID: params.LeadID,
		Type:   params.Type,
		Notes:  params.Notes,
	}, nil
}

func (f *fakeRepo) ListInteractions(context.Context, repository.ListInteractionsParams) ([]repository.Interaction, error) {
	return nil, nil
}

func (f *fakeRepo) ListStatusHistory(context.Context, uuid.UUID) ([]repository.StatusHistoryEntry, error) {
	return f.history, nil
}

type fakeOperators struct {
	operator directory.Operator
	err      error
}

func (f *fakeOperators) GetByID(context.Context, uuid.UUID) (directory.Operator, error) {
	return f.operator, f.err
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) { f.published = append(f.published, event) }
func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(string, events.Handler) {}

func newLead(status domain.Status) repository.Lead {
	return repository.Lead{
		ID:       uuid.New(),
		Name:     "Asha Nair",
		Status:   status,
		Priority: domain.PriorityMedium,
	}
}

func TestAssignRecordsReassignmentNote(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusNew)}
	operator := directory.Operator{ID: uuid.New(), Name: "Ravi", IsActive: true}
	bus := &fakeBus{}
	svc := New(repo, &fakeOperators{operator: operator}, bus)

	actor := uuid.New()
	_, err := svc.Assign(context.Background(), repo.lead.ID, transport.AssignRequest{OperatorID: operator.ID}, actor)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if repo.assigned == nil || *repo.assigned != operator.ID {
		t.Errorf("assigned = %v, want %s", repo.assigned, operator.ID)
	}
	if len(repo.interactions) != 1 {
		t.Fatalf("recorded %d interactions, want 1", len(repo.interactions))
	}
	note := repo.interactions[0]
	if note.Type != domain.InteractionNote || note.Notes != "Reassigned to Ravi" {
		t.Errorf("note = %s %q", note.Type, note.Notes)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
}

func TestAssignInactiveOperator(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusNew)}
	svc := New(repo, &fakeOperators{operator: directory.Operator{ID: uuid.New(), IsActive: false}}, &fakeBus{})

	_, err := svc.Assign(context.Background(), repo.lead.ID, transport.AssignRequest{OperatorID: uuid.New()}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
	if repo.assigned != nil {
		t.Error("lead was assigned despite inactive operator")
	}
}

func TestSetPriorityRecordsNoteWithoutEvent(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusContacted)}
	bus := &fakeBus{}
	svc := New(repo, &fakeOperators{}, bus)

	_, err := svc.SetPriority(context.Background(), repo.lead.ID, transport.SetPriorityRequest{Priority: "URGENT"}, uuid.New())
	if err != nil {
		t.Fatalf("SetPriority() error = %v", err)
	}
	if repo.priority == nil || *repo.priority != domain.PriorityUrgent {
		t.Errorf("priority = %v, want URGENT", repo.priority)
	}
	if len(repo.interactions) != 1 || repo.interactions[0].Notes != "Priority changed to URGENT" {
		t.Errorf("interactions = %+v", repo.interactions)
	}
	if len(bus.published) != 0 {
		t.Errorf("published %d events, want 0", len(bus.published))
	}
}

func TestTransitionPublishesStatusChanged(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusNew)}
	bus := &fakeBus{}
	svc := New(repo, &fakeOperators{}, bus)

	resp, err := svc.Transition(context.Background(), repo.lead.ID, transport.TransitionRequest{Status: "CONTACTED"}, uuid.New())
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if resp.Status != "CONTACTED" {
		t.Errorf("status = %s, want CONTACTED", resp.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	event, ok := bus.published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("event = %T, want LeadStatusChanged", bus.published[0])
	}
	if event.FromStatus != "NEW" || event.ToStatus != "CONTACTED" {
		t.Errorf("event = %s -> %s", event.FromStatus, event.ToStatus)
	}
}

func TestTransitionBackwardRejected(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusScheduled)}
	svc := New(repo, &fakeOperators{}, &fakeBus{})

	_, err := svc.Transition(context.Background(), repo.lead.ID, transport.TransitionRequest{Status: "CONTACTED"}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestTransitionBackwardForced(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusScheduled)}
	svc := New(repo, &fakeOperators{}, &fakeBus{})

	resp, err := svc.Transition(context.Background(), repo.lead.ID, transport.TransitionRequest{Status: "CONTACTED", Force: true}, uuid.New())
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if resp.Status != "CONTACTED" {
		t.Errorf("status = %s, want CONTACTED", resp.Status)
	}
	if repo.transitioned == nil || !repo.transitioned.Force {
		t.Error("force flag did not reach the repository")
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusNew)}
	svc := New(repo, &fakeOperators{}, &fakeBus{})

	_, err := svc.Transition(context.Background(), repo.lead.ID, transport.TransitionRequest{Status: "BOGUS", Force: true}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
	if err != nil && !strings.Contains(err.Error(), "unknown status") {
		t.Errorf("error = %v", err)
	}
}

func TestAddInteractionUnknownType(t *testing.T) {
	repo := &fakeRepo{lead: newLead(domain.StatusNew)}
	svc := New(repo, &fakeOperators{}, &fakeBus{})

	_, err := svc.AddInteraction(context.Background(), repo.lead.ID, transport.AddInteractionRequest{
		Type:  "CARRIER_PIGEON",
		Notes: "tried something new",
	}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
}

package intake

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"stayportal_backend/internal/accommodations"
	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
)

type fakeRepo struct {
	created *repository.CreateLeadParams
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.created = &params
	return repository.Lead{
		ID:                 uuid.New(),
		AccommodationID:    params.AccommodationID,
		AccommodationName:  "Hilltop Homestay",
		Name:               params.Name,
		Phone:              params.Phone,
		Status:             "NEW",
		Priority:           params.Priority,
		AssignedOperatorID: params.AssignedOperatorID,
	}, nil
}

type fakeListings struct {
	acc accommodations.Accommodation
	err error
}

func (f *fakeListings) GetByID(context.Context, uuid.UUID) (accommodations.Accommodation, error) {
	return f.acc, f.err
}

type fakeRoster struct {
	operators []directory.Operator
}

func (f *fakeRoster) ListActive(context.Context) ([]directory.Operator, error) {
	return f.operators, nil
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

func approvedListing() *fakeListings {
	return &fakeListings{acc: accommodations.Accommodation{
		ID:             uuid.New(),
		Name:           "Hilltop Homestay",
		ApprovalStatus: "APPROVED",
		IsActive:       true,
	}}
}

func TestCreateAssignsLeastLoadedOperator(t *testing.T) {
	busy := directory.Operator{ID: uuid.New(), ActiveLeads: 5}
	free := directory.Operator{ID: uuid.New(), ActiveLeads: 1}

	repo := &fakeRepo{}
	bus := &fakeBus{}
	svc := New(repo, approvedListing(), &fakeRoster{operators: []directory.Operator{busy, free}}, bus)

	resp, err := svc.Create(context.Background(), uuid.New(), transport.CreateCallRequestRequest{
		Name:  "Asha Nair",
		Phone: "9876543210",
	}, RequestMeta{IPAddress: "203.0.113.7"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if repo.created.AssignedOperatorID == nil || *repo.created.AssignedOperatorID != free.ID {
		t.Errorf("assigned operator = %v, want %s", repo.created.AssignedOperatorID, free.ID)
	}
	if repo.created.Priority != "MEDIUM" {
		t.Errorf("priority = %s, want MEDIUM", repo.created.Priority)
	}
	if resp.Status != "NEW" {
		t.Errorf("status = %s, want NEW", resp.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.LeadCreated); !ok {
		t.Errorf("published event = %T, want LeadCreated", bus.published[0])
	}
}

func TestCreateWithEmptyRoster(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, approvedListing(), &fakeRoster{}, &fakeBus{})

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateCallRequestRequest{
		Name:  "Asha Nair",
		Phone: "9876543210",
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if repo.created.AssignedOperatorID != nil {
		t.Errorf("assigned operator = %v, want nil", repo.created.AssignedOperatorID)
	}
}

func TestCreateRejectsUnapprovedListing(t *testing.T) {
	listings := &fakeListings{acc: accommodations.Accommodation{
		ApprovalStatus: "PENDING",
		IsActive:       true,
	}}
	svc := New(&fakeRepo{}, listings, &fakeRoster{}, &fakeBus{})

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateCallRequestRequest{
		Name:  "Asha Nair",
		Phone: "9876543210",
	}, RequestMeta{})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestCreateUnknownAccommodation(t *testing.T) {
	listings := &fakeListings{err: accommodations.ErrNotFound}
	svc := New(&fakeRepo{}, listings, &fakeRoster{}, &fakeBus{})

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateCallRequestRequest{
		Name:  "Asha Nair",
		Phone: "9876543210",
	}, RequestMeta{})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("error kind = %v, want not found", apperr.GetKind(err))
	}
}

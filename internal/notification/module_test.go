package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	"stayportal_backend/internal/notification/inapp"
	"stayportal_backend/platform/logger"
)

type fakeStore struct {
	created []inapp.CreateParams
}

func (f *fakeStore) Create(_ context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	f.created = append(f.created, p)
	return inapp.Notification{ID: uuid.New(), OperatorID: p.OperatorID, Title: p.Title}, nil
}

type fakeOperators struct {
	operator directory.Operator
}

func (f *fakeOperators) GetByID(context.Context, uuid.UUID) (directory.Operator, error) {
	return f.operator, nil
}

type recordingSender struct {
	assignment int
	reminder   int
}

func (r *recordingSender) SendAssignmentEmail(context.Context, string, string, string, string) error {
	r.assignment++
	return nil
}

func (r *recordingSender) SendCallbackReminderEmail(context.Context, string, string, string, string, time.Time) error {
	r.reminder++
	return nil
}

func newTestModule(store *fakeStore, sender *recordingSender) *Module {
	return &Module{
		store:     store,
		operators: &fakeOperators{operator: directory.Operator{ID: uuid.New(), Name: "Ravi", Email: "ravi@example.com"}},
		sender:    sender,
		log:       logger.New("test"),
	}
}

func TestLeadCreatedNotifiesAssignee(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	m := newTestModule(store, sender)

	operatorID := uuid.New()
	err := m.onLeadCreated(context.Background(), events.LeadCreated{
		LeadID:             uuid.New(),
		LeadName:           "Asha Nair",
		AccommodationName:  "Hilltop Homestay",
		AssignedOperatorID: &operatorID,
	})
	if err != nil {
		t.Fatalf("onLeadCreated() error = %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(store.created))
	}
	if store.created[0].Title != "New Call Request Assigned" {
		t.Errorf("title = %q", store.created[0].Title)
	}
	if store.created[0].OperatorID != operatorID {
		t.Errorf("operator = %s, want %s", store.created[0].OperatorID, operatorID)
	}
	if sender.assignment != 1 {
		t.Errorf("assignment emails = %d, want 1", sender.assignment)
	}
}

func TestLeadCreatedUnassignedIsSilent(t *testing.T) {
	store := &fakeStore{}
	m := newTestModule(store, &recordingSender{})

	err := m.onLeadCreated(context.Background(), events.LeadCreated{
		LeadID:   uuid.New(),
		LeadName: "Asha Nair",
	})
	if err != nil {
		t.Fatalf("onLeadCreated() error = %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("created %d notifications, want 0", len(store.created))
	}
}

func TestLeadAssignedSkipsSelfAssignment(t *testing.T) {
	store := &fakeStore{}
	m := newTestModule(store, &recordingSender{})

	operatorID := uuid.New()
	err := m.onLeadAssigned(context.Background(), events.LeadAssigned{
		LeadID:     uuid.New(),
		LeadName:   "Asha Nair",
		OperatorID: operatorID,
		AssignedBy: operatorID,
	})
	if err != nil {
		t.Fatalf("onLeadAssigned() error = %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("created %d notifications, want 0", len(store.created))
	}
}

func TestReminderDueNotification(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	m := newTestModule(store, sender)

	err := m.onReminderDue(context.Background(), events.CallbackReminderDue{
		LeadID:            uuid.New(),
		LeadName:          "Asha Nair",
		AccommodationName: "Hilltop Homestay",
		OperatorID:        uuid.New(),
		ScheduledFor:      time.Now().Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("onReminderDue() error = %v", err)
	}
	if len(store.created) != 1 || store.created[0].Title != "Upcoming Callback Reminder" {
		t.Errorf("notifications = %+v", store.created)
	}
	if sender.reminder != 1 {
		t.Errorf("reminder emails = %d, want 1", sender.reminder)
	}
}

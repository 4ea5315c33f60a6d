package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/platform/logger"
)

type fakeSource struct {
	reminders []repository.DueReminder
	reset     []uuid.UUID
}

func (f *fakeSource) ClaimDueReminders(_ context.Context, _ time.Time, _ time.Duration, _ int) ([]repository.DueReminder, error) {
	out := f.reminders
	f.reminders = nil
	return out, nil
}

func (f *fakeSource) ResetReminder(_ context.Context, leadID uuid.UUID) error {
	f.reset = append(f.reset, leadID)
	return nil
}

func newTestDispatcher(t *testing.T, addr string, source ReminderSource) *ReminderDispatcher {
	t.Helper()
	return &ReminderDispatcher{
		client:   asynq.NewClient(asynq.RedisClientOpt{Addr: addr}),
		queue:    "default",
		source:   source,
		window:   time.Hour,
		interval: time.Minute,
		log:      logger.New("test"),
		now:      time.Now,
	}
}

func TestDispatchEnqueuesClaimedReminders(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	source := &fakeSource{reminders: []repository.DueReminder{{
		LeadID:            uuid.New(),
		LeadName:          "Asha Nair",
		AccommodationName: "Hilltop Homestay",
		OperatorID:        uuid.New(),
		ScheduledFor:      time.Now().Add(30 * time.Minute),
	}}}

	d := newTestDispatcher(t, mr.Addr(), source)
	defer d.Close()

	d.dispatchOnce(context.Background())

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Type != TaskCallbackReminder {
		t.Errorf("task type = %s, want %s", tasks[0].Type, TaskCallbackReminder)
	}

	payload, err := ParseCallbackReminderPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.LeadName != "Asha Nair" {
		t.Errorf("leadName = %q", payload.LeadName)
	}
	if len(source.reset) != 0 {
		t.Errorf("reset reminders = %v, want none", source.reset)
	}
}

func TestDispatchReleasesReminderOnEnqueueFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	leadID := uuid.New()
	source := &fakeSource{reminders: []repository.DueReminder{{
		LeadID:     leadID,
		LeadName:   "Asha Nair",
		OperatorID: uuid.New(),
	}}}

	d := newTestDispatcher(t, mr.Addr(), source)
	defer d.Close()

	// Kill the broker so the enqueue fails and the claim must be released.
	mr.Close()

	d.dispatchOnce(context.Background())

	if len(source.reset) != 1 || source.reset[0] != leadID {
		t.Errorf("reset reminders = %v, want [%s]", source.reset, leadID)
	}
}

func TestDispatchEmptyScanIsQuiet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	source := &fakeSource{}
	d := newTestDispatcher(t, mr.Addr(), source)
	defer d.Close()

	d.dispatchOnce(context.Background())

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	queues, err := inspector.Queues()
	if err != nil {
		t.Fatalf("Queues: %v", err)
	}
	if len(queues) != 0 {
		t.Errorf("queues = %v, want none", queues)
	}
}

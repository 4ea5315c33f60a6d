package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/leads/domain"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/apperr"
)

type fakeRepo struct {
	lead      repository.Lead
	leadErr   error
	scheduled *repository.ScheduleCallbackParams
}

func (f *fakeRepo) GetByID(context.Context, uuid.UUID) (repository.Lead, error) {
	return f.lead, f.leadErr
}

func (f *fakeRepo) ScheduleCallback(_ context.Context, params repository.ScheduleCallbackParams) (repository.Lead, error) {
	f.scheduled = &params
	lead := f.lead
	lead.Status = domain.StatusScheduled
	lead.ScheduledCallDate = &params.CallAt
	return lead, nil
}

func (f *fakeRepo) ListScheduledCallbacks(context.Context, *uuid.UUID) ([]repository.Lead, error) {
	return []repository.Lead{f.lead}, nil
}

func (f *fakeRepo) ListOverdueCallbacks(context.Context, *uuid.UUID) ([]repository.Lead, error) {
	return nil, nil
}

func TestScheduleCallbackMovesLeadToScheduled(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New(), Status: domain.StatusContacted}}
	svc := New(repo)

	callAt := time.Now().Add(48 * time.Hour)
	resp, err := svc.ScheduleCallback(context.Background(), repo.lead.ID, transport.ScheduleCallbackRequest{
		ScheduledCallDate: callAt,
	}, uuid.New())
	if err != nil {
		t.Fatalf("ScheduleCallback() error = %v", err)
	}
	if resp.Status != "SCHEDULED" {
		t.Errorf("status = %s, want SCHEDULED", resp.Status)
	}
	if repo.scheduled == nil || !repo.scheduled.CallAt.Equal(callAt) {
		t.Errorf("scheduled params = %+v", repo.scheduled)
	}
}

func TestScheduleCallbackRequiresDate(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New(), Status: domain.StatusNew}}
	svc := New(repo)

	_, err := svc.ScheduleCallback(context.Background(), repo.lead.ID, transport.ScheduleCallbackRequest{}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestScheduleCallbackOnClosedLead(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusConverted, domain.StatusLost, domain.StatusInvalid} {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeRepo{lead: repository.Lead{ID: uuid.New(), Status: status}}
			svc := New(repo)

			_, err := svc.ScheduleCallback(context.Background(), repo.lead.ID, transport.ScheduleCallbackRequest{
				ScheduledCallDate: time.Now().Add(time.Hour),
			}, uuid.New())
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("error kind = %v, want validation", apperr.GetKind(err))
			}
			if repo.scheduled != nil {
				t.Error("callback was booked on a closed lead")
			}
		})
	}
}

package domain

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"forward step", StatusNew, StatusContacted, true},
		{"forward jump", StatusNew, StatusScheduled, true},
		{"straight to converted", StatusQualified, StatusConverted, true},
		{"lost from any active", StatusFollowUp, StatusLost, true},
		{"invalid from new", StatusNew, StatusInvalid, true},
		{"backward", StatusScheduled, StatusContacted, false},
		{"same status", StatusContacted, StatusContacted, false},
		{"out of converted", StatusConverted, StatusFollowUp, false},
		{"out of lost", StatusLost, StatusNew, false},
		{"lost to invalid", StatusLost, StatusInvalid, false},
		{"unknown target", StatusNew, Status("BOGUS"), false},
		{"unknown source", Status("BOGUS"), StatusContacted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApplyTransition(t *testing.T) {
	if u := ApplyTransition(StatusNew, StatusContacted); !u.SetLastContacted || u.SetConverted {
		t.Errorf("NEW->CONTACTED update = %+v", u)
	}
	if u := ApplyTransition(StatusScheduled, StatusConverted); u.SetLastContacted || !u.SetConverted {
		t.Errorf("SCHEDULED->CONVERTED update = %+v", u)
	}
	if u := ApplyTransition(StatusContacted, StatusQualified); u.SetLastContacted || u.SetConverted {
		t.Errorf("CONTACTED->QUALIFIED update = %+v", u)
	}
}

func TestApplyTransitionClearsStaleFlags(t *testing.T) {
	// Leaving SCHEDULED re-arms the reminder so a sent flag never lingers on
	// a lead no longer awaiting a callback.
	if u := ApplyTransition(StatusScheduled, StatusQualified); !u.ClearReminder {
		t.Errorf("SCHEDULED->QUALIFIED update = %+v, want ClearReminder", u)
	}
	if u := ApplyTransition(StatusScheduled, StatusConverted); !u.ClearReminder || !u.SetConverted {
		t.Errorf("SCHEDULED->CONVERTED update = %+v", u)
	}
	// A forced exit from CONVERTED drops the conversion stamp.
	if u := ApplyTransition(StatusConverted, StatusQualified); !u.ClearConverted {
		t.Errorf("CONVERTED->QUALIFIED update = %+v, want ClearConverted", u)
	}
	if u := ApplyTransition(StatusConverted, StatusConverted); u.ClearConverted {
		t.Errorf("CONVERTED->CONVERTED update = %+v, want converted_at kept", u)
	}
	if u := ApplyTransition(StatusNew, StatusContacted); u.ClearReminder || u.ClearConverted {
		t.Errorf("NEW->CONTACTED update = %+v, want no clears", u)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusConverted, StatusLost, StatusInvalid} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false", s)
		}
	}
	for _, s := range ActiveStatuses {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true", s)
		}
	}
}

func TestReminderEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	window := time.Hour
	in30 := now.Add(30 * time.Minute)
	in90 := now.Add(90 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name         string
		status       Status
		reminderSent bool
		hasOperator  bool
		scheduledFor *time.Time
		want         bool
	}{
		{"due within window", StatusScheduled, false, true, &in30, true},
		{"beyond window", StatusScheduled, false, true, &in90, false},
		{"already past", StatusScheduled, false, true, &past, false},
		{"already reminded", StatusScheduled, true, true, &in30, false},
		{"no operator", StatusScheduled, false, false, &in30, false},
		{"wrong status", StatusFollowUp, false, true, &in30, false},
		{"no date", StatusScheduled, false, true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReminderEligible(tt.status, tt.reminderSent, tt.hasOperator, tt.scheduledFor, now, window)
			if got != tt.want {
				t.Errorf("ReminderEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package domain provides core business rules for the leads bounded context.
package domain

import "time"

// Status is a lead's position in the sales funnel.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusContacted Status = "CONTACTED"
	StatusQualified Status = "QUALIFIED"
	StatusFollowUp  Status = "FOLLOW_UP"
	StatusScheduled Status = "SCHEDULED"
	StatusConverted Status = "CONVERTED"
	StatusLost      Status = "LOST"
	StatusInvalid   Status = "INVALID"
)

// funnelOrder maps each forward-progressing stage to its position in the
// funnel. LOST and INVALID are absorbing failure states, not stages.
var funnelOrder = map[Status]int{
	StatusNew:       0,
	StatusContacted: 1,
	StatusQualified: 2,
	StatusFollowUp:  3,
	StatusScheduled: 4,
	StatusConverted: 5,
}

// FunnelStages are the forward-progressing stages in order. Reporting relies
// on this ordering.
var FunnelStages = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusFollowUp,
	StatusScheduled,
	StatusConverted,
}

// ActiveStatuses are the statuses of leads still being worked. The operator
// workload count is defined over this set.
var ActiveStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusFollowUp,
	StatusScheduled,
}

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusFollowUp:  {},
	StatusScheduled: {},
	StatusConverted: {},
	StatusLost:      {},
	StatusInvalid:   {},
}

// IsKnownStatus reports whether the value is a recognized lead status.
func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal reports whether no further work is expected on a lead.
func IsTerminal(s Status) bool {
	return s == StatusConverted || s == StatusLost || s == StatusInvalid
}

// CanTransition reports whether moving from one status to another is allowed
// without force. Forward jumps along the funnel are permitted (a lead may
// skip stages), and LOST/INVALID are reachable from any non-terminal state.
// Transitions out of terminal states and backward moves require force.
func CanTransition(from, to Status) bool {
	if !IsKnownStatus(from) || !IsKnownStatus(to) {
		return false
	}
	if IsTerminal(from) {
		return false
	}
	if to == StatusLost || to == StatusInvalid {
		return true
	}
	return funnelOrder[to] > funnelOrder[from]
}

// StatusUpdate captures the derived side fields of a status transition.
type StatusUpdate struct {
	SetLastContacted bool
	SetConverted     bool
	ClearConverted   bool
	ClearReminder    bool
}

// ApplyTransition computes the side fields a transition writes alongside the
// new status: entering CONTACTED bumps last_contacted_at, entering CONVERTED
// stamps converted_at. Leaving CONVERTED clears the conversion stamp and
// leaving SCHEDULED clears the reminder flag, so both only ever reflect the
// current status.
func ApplyTransition(from, to Status) StatusUpdate {
	return StatusUpdate{
		SetLastContacted: to == StatusContacted,
		SetConverted:     to == StatusConverted,
		ClearConverted:   from == StatusConverted && to != StatusConverted,
		ClearReminder:    from == StatusScheduled && to != StatusScheduled,
	}
}

// Priority is a lead's urgency level.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var knownPriorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

// IsKnownPriority reports whether the value is a recognized priority.
func IsKnownPriority(p Priority) bool {
	_, ok := knownPriorities[p]
	return ok
}

// InteractionType classifies an entry in the interaction ledger.
type InteractionType string

const (
	InteractionCall         InteractionType = "CALL"
	InteractionEmail        InteractionType = "EMAIL"
	InteractionSMS          InteractionType = "SMS"
	InteractionNote         InteractionType = "NOTE"
	InteractionStatusChange InteractionType = "STATUS_CHANGE"
)

var knownInteractionTypes = map[InteractionType]struct{}{
	InteractionCall:         {},
	InteractionEmail:        {},
	InteractionSMS:          {},
	InteractionNote:         {},
	InteractionStatusChange: {},
}

// IsKnownInteractionType reports whether the value is a recognized interaction type.
func IsKnownInteractionType(t InteractionType) bool {
	_, ok := knownInteractionTypes[t]
	return ok
}

// ReminderEligible reports whether a lead qualifies for a callback reminder
// at the given instant: SCHEDULED, not yet reminded, an operator to notify,
// and a callback due within the window.
func ReminderEligible(status Status, reminderSent bool, hasOperator bool, scheduledFor *time.Time, now time.Time, window time.Duration) bool {
	if status != StatusScheduled || reminderSent || !hasOperator || scheduledFor == nil {
		return false
	}
	if scheduledFor.Before(now) {
		return false
	}
	return !scheduledFor.After(now.Add(window))
}

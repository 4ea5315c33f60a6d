package domain

import "github.com/google/uuid"

// OperatorLoad is a snapshot of one operator's open workload.
type OperatorLoad struct {
	OperatorID  uuid.UUID
	ActiveLeads int
}

// PickLeastLoaded selects the operator with the fewest active leads from the
// snapshot. Ties go to the operator appearing first, so assignment is
// deterministic for a given snapshot. Returns nil when the snapshot is empty.
func PickLeastLoaded(operators []OperatorLoad) *uuid.UUID {
	if len(operators) == 0 {
		return nil
	}
	best := operators[0]
	for _, op := range operators[1:] {
		if op.ActiveLeads < best.ActiveLeads {
			best = op
		}
	}
	id := best.OperatorID
	return &id
}

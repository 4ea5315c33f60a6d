package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestPickLeastLoaded(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	t.Run("picks minimum", func(t *testing.T) {
		got := PickLeastLoaded([]OperatorLoad{
			{OperatorID: ids[0], ActiveLeads: 3},
			{OperatorID: ids[1], ActiveLeads: 1},
			{OperatorID: ids[2], ActiveLeads: 4},
		})
		if got == nil || *got != ids[1] {
			t.Errorf("got %v, want %s", got, ids[1])
		}
	})

	t.Run("tie goes to first", func(t *testing.T) {
		got := PickLeastLoaded([]OperatorLoad{
			{OperatorID: ids[0], ActiveLeads: 3},
			{OperatorID: ids[1], ActiveLeads: 1},
			{OperatorID: ids[2], ActiveLeads: 4},
			{OperatorID: ids[3], ActiveLeads: 1},
		})
		if got == nil || *got != ids[1] {
			t.Errorf("got %v, want first min %s", got, ids[1])
		}
	})

	t.Run("single operator", func(t *testing.T) {
		got := PickLeastLoaded([]OperatorLoad{{OperatorID: ids[2], ActiveLeads: 9}})
		if got == nil || *got != ids[2] {
			t.Errorf("got %v, want %s", got, ids[2])
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		if got := PickLeastLoaded(nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

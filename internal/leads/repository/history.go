package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/leads/domain"
)

type StatusHistoryEntry struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	FromStatus *domain.Status
	ToStatus   domain.Status
	Reason     *string
	Notes      *string
	OperatorID *uuid.UUID
	CreatedAt  time.Time
}

// ListStatusHistory returns a lead's status trail, newest first.
func (r *Repository) ListStatusHistory(ctx context.Context, leadID uuid.UUID) ([]StatusHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, from_status, to_status, reason, notes, operator_id, created_at
		FROM lead_status_history
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]StatusHistoryEntry, 0)
	for rows.Next() {
		var e StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.LeadID, &e.FromStatus, &e.ToStatus, &e.Reason, &e.Notes, &e.OperatorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stayportal_backend/internal/leads/domain"
)

type ScheduleCallbackParams struct {
	LeadID     uuid.UUID
	CallAt     time.Time
	Notes      *string
	OperatorID *uuid.UUID
}

// ScheduleCallback books a callback on a lead: sets the call date, re-arms
// the reminder and moves the lead to SCHEDULED. The status change, when one
// happens, gets a history entry; the booking itself is always logged as a
// NOTE with the callback date as follow-up.
func (r *Repository) ScheduleCallback(ctx context.Context, params ScheduleCallbackParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin schedule callback: %w", err)
	}
	defer tx.Rollback(ctx)

	var current domain.Status
	err = tx.QueryRow(ctx, `
		SELECT status FROM leads WHERE id = $1 FOR UPDATE
	`, params.LeadID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE leads
		SET scheduled_call_date = $2, reminder_sent = false, status = $3, updated_at = now()
		WHERE id = $1
	`, params.LeadID, params.CallAt, domain.StatusScheduled)
	if err != nil {
		return Lead{}, err
	}

	if current != domain.StatusScheduled {
		_, err = tx.Exec(ctx, `
			INSERT INTO lead_status_history (lead_id, from_status, to_status, notes, operator_id)
			VALUES ($1, $2, $3, $4, $5)
		`, params.LeadID, current, domain.StatusScheduled, "Callback scheduled", params.OperatorID)
		if err != nil {
			return Lead{}, err
		}
	}

	note := fmt.Sprintf("Callback scheduled for %s", params.CallAt.Format(time.RFC3339))
	if params.Notes != nil && *params.Notes != "" {
		note = *params.Notes
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO lead_interactions (lead_id, type, notes, follow_up_date, operator_id)
		VALUES ($1, $2, $3, $4, $5)
	`, params.LeadID, domain.InteractionNote, note, params.CallAt, params.OperatorID)
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit schedule callback: %w", err)
	}

	return r.GetByID(ctx, params.LeadID)
}

// ListScheduledCallbacks returns leads with a pending callback, soonest
// first. Pass a nil operator to see every operator's callbacks.
func (r *Repository) ListScheduledCallbacks(ctx context.Context, operatorID *uuid.UUID) ([]Lead, error) {
	return r.listCallbacks(ctx, operatorID, "l.scheduled_call_date >= now()")
}

// ListOverdueCallbacks returns leads whose callback date has passed without
// the lead leaving SCHEDULED.
func (r *Repository) ListOverdueCallbacks(ctx context.Context, operatorID *uuid.UUID) ([]Lead, error) {
	return r.listCallbacks(ctx, operatorID, "l.scheduled_call_date < now()")
}

func (r *Repository) listCallbacks(ctx context.Context, operatorID *uuid.UUID, dueClause string) ([]Lead, error) {
	query := `
		SELECT` + leadColumns + `
		FROM leads l
		JOIN accommodations a ON a.id = l.accommodation_id
		WHERE l.status = $1 AND l.scheduled_call_date IS NOT NULL AND ` + dueClause
	args := []any{domain.StatusScheduled}

	if operatorID != nil {
		args = append(args, *operatorID)
		query += fmt.Sprintf(" AND l.assigned_operator_id = $%d", len(args))
	}
	query += " ORDER BY l.scheduled_call_date ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := scanLead(rows, &lead); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

// DueReminder is a claimed callback reminder ready for delivery.
type DueReminder struct {
	LeadID            uuid.UUID
	LeadName          string
	AccommodationName string
	OperatorID        uuid.UUID
	ScheduledFor      time.Time
}

// ClaimDueReminders atomically claims leads whose callback falls inside
// [now, now+window): each claimed row has reminder_sent flipped to true so
// concurrent dispatchers never pick up the same lead twice. Leads without an
// assigned operator are skipped.
func (r *Repository) ClaimDueReminders(ctx context.Context, now time.Time, window time.Duration, limit int) ([]DueReminder, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE leads l
		SET reminder_sent = true, updated_at = now()
		FROM (
			SELECT id FROM leads
			WHERE status = $1
				AND reminder_sent = false
				AND assigned_operator_id IS NOT NULL
				AND scheduled_call_date >= $2
				AND scheduled_call_date <= $3
			ORDER BY scheduled_call_date ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		) due, accommodations a
		WHERE l.id = due.id AND a.id = l.accommodation_id
		RETURNING l.id, l.name, a.name, l.assigned_operator_id, l.scheduled_call_date
	`, domain.StatusScheduled, now, now.Add(window), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]DueReminder, 0)
	for rows.Next() {
		var rem DueReminder
		if err := rows.Scan(&rem.LeadID, &rem.LeadName, &rem.AccommodationName, &rem.OperatorID, &rem.ScheduledFor); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return reminders, nil
}

// ResetReminder re-arms a claimed reminder after a failed dispatch so the
// next scan picks it up again.
func (r *Repository) ResetReminder(ctx context.Context, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET reminder_sent = false, updated_at = now() WHERE id = $1
	`, leadID)
	return err
}

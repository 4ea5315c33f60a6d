package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stayportal_backend/internal/leads/domain"
)

// ErrInvalidTransition signals a status move the transition rules reject.
var ErrInvalidTransition = errors.New("status transition not allowed")

type TransitionParams struct {
	LeadID          uuid.UUID
	ToStatus        domain.Status
	Reason          *string
	Notes           *string
	OperatorID      *uuid.UUID
	ConversionValue *float64
	// Force skips the transition rules, allowing backward moves and exits
	// from terminal statuses.
	Force bool
}

// TransitionStatus moves a lead to a new status atomically: the row is
// locked, the rules checked against the current status, derived timestamps
// written, and one history entry plus one STATUS_CHANGE ledger entry
// appended. Rejected moves return ErrInvalidTransition with nothing written.
func (r *Repository) TransitionStatus(ctx context.Context, params TransitionParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin transition: %w", err)
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

	if !params.Force && !domain.CanTransition(current, params.ToStatus) {
		return Lead{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, params.ToStatus)
	}

	update := domain.ApplyTransition(current, params.ToStatus)
	_, err = tx.Exec(ctx, `
		UPDATE leads
		SET status = $2,
			last_contacted_at = CASE WHEN $3 THEN now() ELSE last_contacted_at END,
			converted_at = CASE WHEN $4 THEN now() WHEN $5 THEN NULL ELSE converted_at END,
			reminder_sent = CASE WHEN $6 THEN false ELSE reminder_sent END,
			conversion_value = COALESCE($7, conversion_value),
			updated_at = now()
		WHERE id = $1
	`, params.LeadID, params.ToStatus, update.SetLastContacted, update.SetConverted,
		update.ClearConverted, update.ClearReminder, params.ConversionValue)
	if err != nil {
		return Lead{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_status_history (lead_id, from_status, to_status, reason, notes, operator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, params.LeadID, current, params.ToStatus, params.Reason, params.Notes, params.OperatorID)
	if err != nil {
		return Lead{}, err
	}

	note := fmt.Sprintf("Status changed to %s", params.ToStatus)
	if params.Notes != nil && *params.Notes != "" {
		note = *params.Notes
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO lead_interactions (lead_id, type, notes, operator_id)
		VALUES ($1, $2, $3, $4)
	`, params.LeadID, domain.InteractionStatusChange, note, params.OperatorID)
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit transition: %w", err)
	}

	return r.GetByID(ctx, params.LeadID)
}

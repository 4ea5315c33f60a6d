package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stayportal_backend/internal/leads/domain"
)

type Interaction struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	Type            domain.InteractionType
	Outcome         *string
	DurationSeconds *int
	Notes           string
	NextAction      *string
	FollowUpDate    *time.Time
	OperatorID      *uuid.UUID
	CreatedAt       time.Time
}

type AddInteractionParams struct {
	LeadID          uuid.UUID
	Type            domain.InteractionType
	Outcome         *string
	DurationSeconds *int
	Notes           string
	NextAction      *string
	FollowUpDate    *time.Time
	OperatorID      *uuid.UUID
}

// AddInteraction appends an entry to a lead's ledger. Logging a CALL also
// bumps the lead's last_contacted_at, in the same transaction.
func (r *Repository) AddInteraction(ctx context.Context, params AddInteractionParams) (Interaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Interaction{}, fmt.Errorf("begin add interaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var interaction Interaction
	err = tx.QueryRow(ctx, `
		INSERT INTO lead_interactions (lead_id, type, outcome, duration_seconds, notes, next_action, follow_up_date, operator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, lead_id, type, outcome, duration_seconds, notes, next_action, follow_up_date, operator_id, created_at
	`,
		params.LeadID, params.Type, params.Outcome, params.DurationSeconds,
		params.Notes, params.NextAction, params.FollowUpDate, params.OperatorID,
	).Scan(
		&interaction.ID, &interaction.LeadID, &interaction.Type, &interaction.Outcome,
		&interaction.DurationSeconds, &interaction.Notes, &interaction.NextAction,
		&interaction.FollowUpDate, &interaction.OperatorID, &interaction.CreatedAt,
	)
	if err != nil {
		return Interaction{}, err
	}

	if params.Type == domain.InteractionCall {
		_, err = tx.Exec(ctx, `
			UPDATE leads SET last_contacted_at = now(), updated_at = now() WHERE id = $1
		`, params.LeadID)
		if err != nil {
			return Interaction{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Interaction{}, fmt.Errorf("commit add interaction: %w", err)
	}

	return interaction, nil
}

type ListInteractionsParams struct {
	LeadID uuid.UUID
	Type   *domain.InteractionType
	Limit  int
	Offset int
}

// ListInteractions returns a lead's ledger, newest first.
func (r *Repository) ListInteractions(ctx context.Context, params ListInteractionsParams) ([]Interaction, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, lead_id, type, outcome, duration_seconds, notes, next_action, follow_up_date, operator_id, created_at
		FROM lead_interactions
		WHERE lead_id = $1`
	args := []any{params.LeadID}

	if params.Type != nil {
		args = append(args, *params.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	args = append(args, limit, params.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var i Interaction
		err := rows.Scan(
			&i.ID, &i.LeadID, &i.Type, &i.Outcome, &i.DurationSeconds,
			&i.Notes, &i.NextAction, &i.FollowUpDate, &i.OperatorID, &i.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

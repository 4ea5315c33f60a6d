// Package repository provides Postgres persistence for leads and their
// status history, interaction ledger and callback bookkeeping.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stayportal_backend/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                 uuid.UUID
	AccommodationID    uuid.UUID
	AccommodationName  string
	Name               string
	Phone              string
	Email              *string
	PreferredCallTime  *string
	Message            *string
	SourceURL          *string
	IPAddress          *string
	UserAgent          *string
	Status             domain.Status
	Priority           domain.Priority
	AssignedOperatorID *uuid.UUID
	AssignedAt         *time.Time
	LastContactedAt    *time.Time
	ConvertedAt        *time.Time
	ConversionValue    *float64
	ScheduledCallDate  *time.Time
	ReminderSent       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LeadListItem is a lead row enriched with ledger context for list views.
type LeadListItem struct {
	Lead
	InteractionCount      int
	LatestInteractionType *domain.InteractionType
	LatestInteractionNote *string
	LatestInteractionAt   *time.Time
}

const leadColumns = `
	l.id, l.accommodation_id, a.name, l.name, l.phone, l.email,
	l.preferred_call_time, l.message, l.source_url, l.ip_address, l.user_agent,
	l.status, l.priority, l.assigned_operator_id, l.assigned_at,
	l.last_contacted_at, l.converted_at, l.conversion_value,
	l.scheduled_call_date, l.reminder_sent, l.created_at, l.updated_at`

func scanLead(row pgx.Row, lead *Lead) error {
	return row.Scan(
		&lead.ID, &lead.AccommodationID, &lead.AccommodationName, &lead.Name, &lead.Phone, &lead.Email,
		&lead.PreferredCallTime, &lead.Message, &lead.SourceURL, &lead.IPAddress, &lead.UserAgent,
		&lead.Status, &lead.Priority, &lead.AssignedOperatorID, &lead.AssignedAt,
		&lead.LastContactedAt, &lead.ConvertedAt, &lead.ConversionValue,
		&lead.ScheduledCallDate, &lead.ReminderSent, &lead.CreatedAt, &lead.UpdatedAt,
	)
}

type CreateLeadParams struct {
	AccommodationID    uuid.UUID
	Name               string
	Phone              string
	Email              *string
	PreferredCallTime  *string
	Message            *string
	SourceURL          *string
	IPAddress          *string
	UserAgent          *string
	Priority           domain.Priority
	AssignedOperatorID *uuid.UUID
}

// Create inserts a new lead in NEW status together with its opening history
// entry, in one transaction.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin create lead: %w", err)
	}
	defer tx.Rollback(ctx)

	var assignedAt *time.Time
	if params.AssignedOperatorID != nil {
		now := time.Now()
		assignedAt = &now
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO leads (accommodation_id, name, phone, email, preferred_call_time, message,
			source_url, ip_address, user_agent, priority, assigned_operator_id, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`,
		params.AccommodationID, params.Name, params.Phone, params.Email, params.PreferredCallTime,
		params.Message, params.SourceURL, params.IPAddress, params.UserAgent,
		params.Priority, params.AssignedOperatorID, assignedAt,
	).Scan(&id)
	if err != nil {
		return Lead{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_status_history (lead_id, from_status, to_status, notes)
		VALUES ($1, NULL, $2, $3)
	`, id, domain.StatusNew, "Call request created")
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit create lead: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := scanLead(r.pool.QueryRow(ctx, `
		SELECT`+leadColumns+`
		FROM leads l
		JOIN accommodations a ON a.id = l.accommodation_id
		WHERE l.id = $1
	`, id), &lead)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type ListParams struct {
	Status             *domain.Status
	Priority           *domain.Priority
	AssignedOperatorID *uuid.UUID
	AccommodationID    *uuid.UUID
	CreatedFrom        *time.Time
	CreatedTo          *time.Time
	Limit              int
	Offset             int
}

// List returns leads ordered by priority (urgent first) then recency, with
// each row's latest interaction and interaction count. The total count over
// the same filters is returned alongside for pagination.
func (r *Repository) List(ctx context.Context, params ListParams) ([]LeadListItem, int, error) {
	where := []string{"1=1"}
	args := []any{}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if params.Status != nil {
		addFilter("l.status = $%d", *params.Status)
	}
	if params.Priority != nil {
		addFilter("l.priority = $%d", *params.Priority)
	}
	if params.AssignedOperatorID != nil {
		addFilter("l.assigned_operator_id = $%d", *params.AssignedOperatorID)
	}
	if params.AccommodationID != nil {
		addFilter("l.accommodation_id = $%d", *params.AccommodationID)
	}
	if params.CreatedFrom != nil {
		addFilter("l.created_at >= $%d", *params.CreatedFrom)
	}
	if params.CreatedTo != nil {
		addFilter("l.created_at <= $%d", *params.CreatedTo)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM leads l WHERE "+whereClause, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT`+leadColumns+`,
			COALESCE(ic.cnt, 0),
			li.type, li.notes, li.created_at
		FROM leads l
		JOIN accommodations a ON a.id = l.accommodation_id
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS cnt FROM lead_interactions i WHERE i.lead_id = l.id
		) ic ON true
		LEFT JOIN LATERAL (
			SELECT i.type, i.notes, i.created_at
			FROM lead_interactions i
			WHERE i.lead_id = l.id
			ORDER BY i.created_at DESC
			LIMIT 1
		) li ON true
		WHERE %s
		ORDER BY
			CASE l.priority
				WHEN 'URGENT' THEN 4
				WHEN 'HIGH' THEN 3
				WHEN 'MEDIUM' THEN 2
				WHEN 'LOW' THEN 1
				ELSE 0
			END DESC,
			l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]LeadListItem, 0)
	for rows.Next() {
		var item LeadListItem
		err := rows.Scan(
			&item.ID, &item.AccommodationID, &item.AccommodationName, &item.Name, &item.Phone, &item.Email,
			&item.PreferredCallTime, &item.Message, &item.SourceURL, &item.IPAddress, &item.UserAgent,
			&item.Status, &item.Priority, &item.AssignedOperatorID, &item.AssignedAt,
			&item.LastContactedAt, &item.ConvertedAt, &item.ConversionValue,
			&item.ScheduledCallDate, &item.ReminderSent, &item.CreatedAt, &item.UpdatedAt,
			&item.InteractionCount,
			&item.LatestInteractionType, &item.LatestInteractionNote, &item.LatestInteractionAt,
		)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

// Assign hands a lead to an operator and stamps assigned_at.
func (r *Repository) Assign(ctx context.Context, leadID, operatorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET assigned_operator_id = $2, assigned_at = now(), updated_at = now()
		WHERE id = $1
	`, leadID, operatorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPriority updates a lead's priority level.
func (r *Repository) SetPriority(ctx context.Context, leadID uuid.UUID, priority domain.Priority) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET priority = $2, updated_at = now() WHERE id = $1
	`, leadID, priority)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Package repository provides the read-side queries backing the reporting
// engine. All queries share the same optional window and scope filters.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Range scopes a report: an optional created_at window plus optional
// accommodation and operator filters. Any field may be nil.
type Range struct {
	From            *time.Time
	To              *time.Time
	AccommodationID *uuid.UUID
	OperatorID      *uuid.UUID
}

// clause renders the range as a WHERE fragment against the leads table,
// appending bind values to args. prefix qualifies the lead columns ("l." in
// joined queries, empty otherwise).
func (r Range) clause(prefix string, args *[]any) string {
	clause := "1=1"
	if r.From != nil {
		*args = append(*args, *r.From)
		clause += fmt.Sprintf(" AND %screated_at >= $%d", prefix, len(*args))
	}
	if r.To != nil {
		*args = append(*args, *r.To)
		clause += fmt.Sprintf(" AND %screated_at <= $%d", prefix, len(*args))
	}
	if r.AccommodationID != nil {
		*args = append(*args, *r.AccommodationID)
		clause += fmt.Sprintf(" AND %saccommodation_id = $%d", prefix, len(*args))
	}
	if r.OperatorID != nil {
		*args = append(*args, *r.OperatorID)
		clause += fmt.Sprintf(" AND %sassigned_operator_id = $%d", prefix, len(*args))
	}
	return clause
}

// Totals are the headline lead counts over a window.
type Totals struct {
	Total     int
	New       int
	Contacted int
	Qualified int
	FollowUp  int
	Scheduled int
	Converted int
	Lost      int
	Invalid   int
}

// GetTotals counts leads per current status in a single pass.
func (r *Repository) GetTotals(ctx context.Context, rng Range) (Totals, error) {
	args := []any{}
	clause := rng.clause("", &args)

	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'NEW'),
			COUNT(*) FILTER (WHERE status = 'CONTACTED'),
			COUNT(*) FILTER (WHERE status = 'QUALIFIED'),
			COUNT(*) FILTER (WHERE status = 'FOLLOW_UP'),
			COUNT(*) FILTER (WHERE status = 'SCHEDULED'),
			COUNT(*) FILTER (WHERE status = 'CONVERTED'),
			COUNT(*) FILTER (WHERE status = 'LOST'),
			COUNT(*) FILTER (WHERE status = 'INVALID')
		FROM leads
		WHERE `+clause, args...,
	).Scan(&t.Total, &t.New, &t.Contacted, &t.Qualified, &t.FollowUp, &t.Scheduled, &t.Converted, &t.Lost, &t.Invalid)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}

// OperatorRow is one operator's raw performance numbers.
type OperatorRow struct {
	OperatorID        uuid.UUID
	OperatorName      string
	TotalAssigned     int
	Active            int
	Converted         int
	Lost              int
	TotalInteractions int
	ResponseHours     []float64
}

// GetOperatorPerformance returns assignment outcomes, interaction volume and
// response delays (hours from creation to first contact) per active
// operator. Operators with no leads in the window still get a row.
func (r *Repository) GetOperatorPerformance(ctx context.Context, rng Range) ([]OperatorRow, error) {
	args := []any{}
	leadClause := rng.clause("l.", &args)
	interactionClause := rng.clause("l2.", &args)

	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.name,
			COUNT(l.id),
			COUNT(l.id) FILTER (WHERE l.status IN ('NEW', 'CONTACTED', 'QUALIFIED', 'FOLLOW_UP', 'SCHEDULED')),
			COUNT(l.id) FILTER (WHERE l.status = 'CONVERTED'),
			COUNT(l.id) FILTER (WHERE l.status = 'LOST'),
			(
				SELECT COUNT(*)
				FROM lead_interactions i
				JOIN leads l2 ON l2.id = i.lead_id
				WHERE l2.assigned_operator_id = o.id AND `+interactionClause+`
			),
			COALESCE(
				array_agg(EXTRACT(EPOCH FROM (l.last_contacted_at - l.created_at))::float8 / 3600.0)
					FILTER (WHERE l.last_contacted_at IS NOT NULL),
				'{}'
			)
		FROM operators o
		LEFT JOIN leads l ON l.assigned_operator_id = o.id AND `+leadClause+`
		WHERE o.is_active = true
		GROUP BY o.id, o.name
		ORDER BY COUNT(l.id) DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OperatorRow, 0)
	for rows.Next() {
		var row OperatorRow
		err := rows.Scan(
			&row.OperatorID, &row.OperatorName, &row.TotalAssigned, &row.Active,
			&row.Converted, &row.Lost, &row.TotalInteractions, &row.ResponseHours,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// PropertyRow is one accommodation's call request volume and outcomes.
type PropertyRow struct {
	AccommodationID   uuid.UUID
	AccommodationName string
	Total             int
	Converted         int
	TotalValue        float64
}

// GetPropertyPerformance returns the top accommodations by call request
// volume with their conversion outcomes and summed conversion value.
func (r *Repository) GetPropertyPerformance(ctx context.Context, rng Range, limit int) ([]PropertyRow, error) {
	args := []any{}
	clause := rng.clause("l.", &args)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT a.id, a.name,
			COUNT(l.id),
			COUNT(l.id) FILTER (WHERE l.status = 'CONVERTED'),
			COALESCE(SUM(l.conversion_value) FILTER (WHERE l.status = 'CONVERTED'), 0)
		FROM accommodations a
		JOIN leads l ON l.accommodation_id = a.id
		WHERE %s
		GROUP BY a.id, a.name
		ORDER BY COUNT(l.id) DESC
		LIMIT $%d
	`, clause, len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]PropertyRow, 0)
	for rows.Next() {
		var row PropertyRow
		if err := rows.Scan(&row.AccommodationID, &row.AccommodationName, &row.Total, &row.Converted, &row.TotalValue); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// TrendRow is one lead's creation instant and current status, the raw
// material for time-bucketed trends.
type TrendRow struct {
	CreatedAt time.Time
	Status    string
}

// GetTrendRows returns creation timestamps with current statuses; bucketing
// happens in the service.
func (r *Repository) GetTrendRows(ctx context.Context, rng Range) ([]TrendRow, error) {
	args := []any{}
	clause := rng.clause("", &args)

	rows, err := r.pool.Query(ctx, `
		SELECT created_at, status FROM leads WHERE `+clause+` ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TrendRow, 0)
	for rows.Next() {
		var row TrendRow
		if err := rows.Scan(&row.CreatedAt, &row.Status); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// LostReasonRow is the recorded reason of one lost lead. The reason comes
// from the latest history entry that moved the lead to LOST.
type LostReasonRow struct {
	Reason *string
}

// GetLostReasons returns one row per currently-lost lead with its most
// recent recorded loss reason.
func (r *Repository) GetLostReasons(ctx context.Context, rng Range) ([]LostReasonRow, error) {
	args := []any{}
	clause := rng.clause("l.", &args)

	rows, err := r.pool.Query(ctx, `
		SELECT h.reason
		FROM leads l
		LEFT JOIN LATERAL (
			SELECT reason
			FROM lead_status_history
			WHERE lead_id = l.id AND to_status = 'LOST'
			ORDER BY created_at DESC
			LIMIT 1
		) h ON true
		WHERE l.status = 'LOST' AND `+clause+`
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LostReasonRow, 0)
	for rows.Next() {
		var row LostReasonRow
		if err := rows.Scan(&row.Reason); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

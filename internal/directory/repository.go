// Package directory provides read access to the operator roster.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("operator not found")

const (
	RoleSiteAdmin  = "site_admin"
	RoleDepartment = "department"
)

type Operator struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Role        string
	IsActive    bool
	ActiveLeads int
	CreatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActive returns active operators with their current open-lead counts,
// in roster order. The count covers leads not yet converted, lost or marked
// invalid.
func (r *Repository) ListActive(ctx context.Context) ([]Operator, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.name, o.email, o.role, o.is_active, o.created_at,
			COUNT(l.id) FILTER (
				WHERE l.status IN ('NEW', 'CONTACTED', 'QUALIFIED', 'FOLLOW_UP', 'SCHEDULED')
			) AS active_leads
		FROM operators o
		LEFT JOIN leads l ON l.assigned_operator_id = o.id
		WHERE o.is_active = true
		GROUP BY o.id
		ORDER BY o.created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operators := make([]Operator, 0)
	for rows.Next() {
		var op Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Email, &op.Role, &op.IsActive, &op.CreatedAt, &op.ActiveLeads); err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return operators, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Operator, error) {
	var op Operator
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, is_active, created_at
		FROM operators
		WHERE id = $1
	`, id).Scan(&op.ID, &op.Name, &op.Email, &op.Role, &op.IsActive, &op.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Operator{}, ErrNotFound
	}
	if err != nil {
		return Operator{}, err
	}
	return op, nil
}

// Package accommodations provides read access to the property listings that
// call requests are raised against.
package accommodations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("accommodation not found")

const ApprovalStatusApproved = "APPROVED"

type Accommodation struct {
	ID             uuid.UUID
	Name           string
	Type           string
	Area           *string
	State          *string
	ApprovalStatus string
	IsActive       bool
}

// AcceptsCallRequests reports whether the listing is live for public intake.
func (a Accommodation) AcceptsCallRequests() bool {
	return a.IsActive && a.ApprovalStatus == ApprovalStatusApproved
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Accommodation, error) {
	var acc Accommodation
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, area, state, approval_status, is_active
		FROM accommodations
		WHERE id = $1
	`, id).Scan(&acc.ID, &acc.Name, &acc.Type, &acc.Area, &acc.State, &acc.ApprovalStatus, &acc.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Accommodation{}, ErrNotFound
	}
	if err != nil {
		return Accommodation{}, err
	}
	return acc, nil
}

package referrals

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Referral) error
	GetByID(ctx context.Context, id uuid.UUID) (*Referral, error)
	// List orders newest first; an empty status matches all.
	List(ctx context.Context, status string, limit, offset int) ([]*Referral, int, error)
}

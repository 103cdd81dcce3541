package billing

import (
	"context"

	"github.com/google/uuid"
)

type ClaimRepository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	// List returns claims newest first; an empty status matches all.
	List(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error)
}

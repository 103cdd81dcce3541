package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Member, int, error)
	// Upsert inserts or updates by external id.
	Upsert(ctx context.Context, m *Member) error
}

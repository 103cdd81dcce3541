package delivery

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *ServiceRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceRecord, error)
	// List orders by service date, most recent first.
	List(ctx context.Context, f Filter, limit, offset int) ([]*ServiceRecord, int, error)
}

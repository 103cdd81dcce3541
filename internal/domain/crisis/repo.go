package crisis

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// List orders by event date, most recent first.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Event, int, error)
}

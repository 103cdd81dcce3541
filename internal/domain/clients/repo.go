package clients

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	// List orders newest first.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error)
}

package documents

import (
	"context"

	"github.com/google/uuid"
)

type WorkflowRepository interface {
	Create(ctx context.Context, w *Workflow) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workflow, error)
	List(ctx context.Context, limit, offset int) ([]*Workflow, int, error)
	// CountByStatus omits statuses with no workflows.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, limit, offset int) ([]*Document, int, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	List(ctx context.Context, limit, offset int) ([]*Template, int, error)
}

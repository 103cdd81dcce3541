package documents

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
)

type Service struct {
	workflows WorkflowRepository
	documents DocumentRepository
	templates TemplateRepository
	now       func() time.Time
}

func NewService(w WorkflowRepository, d DocumentRepository, t TemplateRepository) *Service {
	return &Service{workflows: w, documents: d, templates: t, now: time.Now}
}

// -- Workflows --

func (s *Service) CreateWorkflow(ctx context.Context, w *Workflow) error {
	if w.ClientID == uuid.Nil {
		return apperr.Invalid("clientId is required")
	}
	if !validSteps[w.WorkflowStep] {
		return apperr.Invalid("invalid workflowStep: %q", w.WorkflowStep)
	}
	if w.Status == "" {
		w.Status = WorkflowNotStarted
	}
	if !validWorkflowStatuses[w.Status] {
		return apperr.Invalid("invalid workflow status: %s", w.Status)
	}
	now := s.now()
	if (w.Status == WorkflowInProgress || w.Status == WorkflowCompleted) && w.StartedAt == nil {
		w.StartedAt = &now
	}
	if w.Status == WorkflowCompleted && w.CompletedAt == nil {
		w.CompletedAt = &now
	}
	return s.workflows.Create(ctx, w)
}

func (s *Service) GetWorkflow(ctx context.Context, id uuid.UUID) (*Workflow, error) {
	return s.workflows.GetByID(ctx, id)
}

func (s *Service) ListWorkflows(ctx context.Context, limit, offset int) ([]*Workflow, int, error) {
	return s.workflows.List(ctx, limit, offset)
}

func (s *Service) WorkflowStatusCounts(ctx context.Context) (map[string]int, error) {
	return s.workflows.CountByStatus(ctx)
}

// -- Documents --

func (s *Service) CreateDocument(ctx context.Context, d *Document) error {
	d.DocumentType = strings.TrimSpace(d.DocumentType)
	if d.DocumentType == "" {
		return apperr.Invalid("documentType is required")
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return apperr.Invalid("title is required")
	}
	if d.Status == "" {
		d.Status = DocumentDraft
	}
	if !validDocumentStatuses[d.Status] {
		return apperr.Invalid("invalid document status: %s", d.Status)
	}
	if len(d.Metadata) > 0 && !json.Valid(d.Metadata) {
		return apperr.Invalid("metadata must be valid JSON")
	}
	if d.GeneratedBy != nil && d.GeneratedAt == nil {
		now := s.now()
		d.GeneratedAt = &now
	}
	return s.documents.Create(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.documents.GetByID(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, limit, offset int) ([]*Document, int, error) {
	return s.documents.List(ctx, limit, offset)
}

// -- Templates --

func (s *Service) CreateTemplate(ctx context.Context, t *Template) error {
	if strings.TrimSpace(t.TemplateName) == "" {
		return apperr.Invalid("templateName is required")
	}
	if strings.TrimSpace(t.DocumentType) == "" {
		return apperr.Invalid("documentType is required")
	}
	if t.TemplateContent == "" {
		return apperr.Invalid("templateContent is required")
	}
	if t.WorkflowStep != nil && !validSteps[*t.WorkflowStep] {
		return apperr.Invalid("invalid workflowStep: %q", *t.WorkflowStep)
	}
	return s.templates.Create(ctx, t)
}

func (s *Service) ListTemplates(ctx context.Context, limit, offset int) ([]*Template, int, error) {
	return s.templates.List(ctx, limit, offset)
}

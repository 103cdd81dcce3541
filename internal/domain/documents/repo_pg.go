package documents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/db"
)

// =========== Workflow Repository ===========

type workflowRepoPG struct{ pool *pgxpool.Pool }

func NewWorkflowRepoPG(pool *pgxpool.Pool) WorkflowRepository { return &workflowRepoPG{pool: pool} }

const workflowCols = `id, client_id, workflow_step, status, started_at, completed_at,
	started_by, completed_by, notes, created_at, updated_at`

func scanWorkflow(row pgx.Row) (*Workflow, error) {
	var w Workflow
	err := row.Scan(&w.ID, &w.ClientID, &w.WorkflowStep, &w.Status, &w.StartedAt, &w.CompletedAt,
		&w.StartedBy, &w.CompletedBy, &w.Notes, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *workflowRepoPG) Create(ctx context.Context, w *Workflow) error {
	w.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO eia_workflows (id, client_id, workflow_step, status, started_at, completed_at,
			started_by, completed_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		w.ID, w.ClientID, w.WorkflowStep, w.Status, w.StartedAt, w.CompletedAt,
		w.StartedBy, w.CompletedBy, w.Notes,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

func (r *workflowRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Workflow, error) {
	w, err := scanWorkflow(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+workflowCols+` FROM eia_workflows WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "workflow")
	}
	return w, nil
}

func (r *workflowRepoPG) List(ctx context.Context, limit, offset int) ([]*Workflow, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM eia_workflows`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workflows: %w", err)
	}
	rows, err := conn.Query(ctx, `SELECT `+workflowCols+` FROM eia_workflows ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()
	items := []*Workflow{}
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, rows.Err()
}

func (r *workflowRepoPG) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM eia_workflows GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count workflows by status: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// =========== Document Repository ===========

type documentRepoPG struct{ pool *pgxpool.Pool }

func NewDocumentRepoPG(pool *pgxpool.Pool) DocumentRepository { return &documentRepoPG{pool: pool} }

const documentCols = `id, client_id, workflow_id, referral_id, crisis_event_id, service_id, claim_id,
	document_type, title, content, file_path, file_url, mime_type, file_size, generated_by, generated_at,
	metadata, status, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var metadata []byte
	err := row.Scan(&d.ID, &d.ClientID, &d.WorkflowID, &d.ReferralID, &d.CrisisEventID, &d.ServiceID, &d.ClaimID,
		&d.DocumentType, &d.Title, &d.Content, &d.FilePath, &d.FileURL, &d.MimeType, &d.FileSize, &d.GeneratedBy,
		&d.GeneratedAt, &metadata, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if len(metadata) > 0 {
		d.Metadata = metadata
	}
	return &d, err
}

func (r *documentRepoPG) Create(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	var metadata []byte
	if len(d.Metadata) > 0 {
		metadata = d.Metadata
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO documents (id, client_id, workflow_id, referral_id, crisis_event_id, service_id, claim_id,
			document_type, title, content, file_path, file_url, mime_type, file_size, generated_by, generated_at,
			metadata, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING created_at, updated_at`,
		d.ID, d.ClientID, d.WorkflowID, d.ReferralID, d.CrisisEventID, d.ServiceID, d.ClaimID,
		d.DocumentType, d.Title, d.Content, d.FilePath, d.FileURL, d.MimeType, d.FileSize, d.GeneratedBy, d.GeneratedAt,
		metadata, d.Status,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *documentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := scanDocument(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+documentCols+` FROM documents WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "document")
	}
	return d, nil
}

func (r *documentRepoPG) List(ctx context.Context, limit, offset int) ([]*Document, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	rows, err := conn.Query(ctx, `SELECT `+documentCols+` FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	items := []*Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// =========== Template Repository ===========

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository { return &templateRepoPG{pool: pool} }

const templateCols = `id, template_name, document_type, workflow_step, template_content, prompt_template,
	variables, is_active, created_by, created_at, updated_at`

func (r *templateRepoPG) Create(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	var variables []byte
	if len(t.Variables) > 0 {
		variables = t.Variables
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO document_templates (id, template_name, document_type, workflow_step, template_content,
			prompt_template, variables, is_active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		t.ID, t.TemplateName, t.DocumentType, t.WorkflowStep, t.TemplateContent,
		t.PromptTemplate, variables, t.IsActive, t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *templateRepoPG) List(ctx context.Context, limit, offset int) ([]*Template, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM document_templates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}
	rows, err := conn.Query(ctx, `SELECT `+templateCols+` FROM document_templates ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	items := []*Template{}
	for rows.Next() {
		var t Template
		var variables []byte
		if err := rows.Scan(&t.ID, &t.TemplateName, &t.DocumentType, &t.WorkflowStep, &t.TemplateContent,
			&t.PromptTemplate, &variables, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if len(variables) > 0 {
			t.Variables = variables
		}
		items = append(items, &t)
	}
	return items, total, rows.Err()
}

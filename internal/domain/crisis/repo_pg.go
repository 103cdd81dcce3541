package crisis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const eventCols = `id, client_id, event_date, crisis_type, risk_level, location, description,
	intervention_type, intervention_details, outcome, follow_up_required, follow_up_due_date,
	follow_up_completed, hospitalization, status, reported_by, responded_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.ClientID, &e.EventDate, &e.CrisisType, &e.RiskLevel, &e.Location, &e.Description,
		&e.InterventionType, &e.InterventionDetails, &e.Outcome, &e.FollowUpRequired, &e.FollowUpDueDate,
		&e.FollowUpCompleted, &e.Hospitalization, &e.Status, &e.ReportedBy, &e.RespondedBy, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Event) error {
	e.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO crisis_events (id, client_id, event_date, crisis_type, risk_level, location, description,
			intervention_type, intervention_details, outcome, follow_up_required, follow_up_due_date,
			follow_up_completed, hospitalization, status, reported_by, responded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at`,
		e.ID, e.ClientID, e.EventDate, e.CrisisType, e.RiskLevel, e.Location, e.Description,
		e.InterventionType, e.InterventionDetails, e.Outcome, e.FollowUpRequired, e.FollowUpDueDate,
		e.FollowUpCompleted, e.Hospitalization, e.Status, e.ReportedBy, e.RespondedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert crisis event: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, err := scanEvent(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+eventCols+` FROM crisis_events WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "crisis event")
	}
	return e, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Event, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		where += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM crisis_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count crisis events: %w", err)
	}

	query := `SELECT ` + eventCols + ` FROM crisis_events` + where +
		fmt.Sprintf(` ORDER BY event_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list crisis events: %w", err)
	}
	defer rows.Close()

	items := []*Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

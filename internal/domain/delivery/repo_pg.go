package delivery

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

const serviceCols = `id, client_id, provider_id, service_date, service_type, units, rate, total_amount,
	billing_status, documentation_completed, notes, service_location, status, created_at, updated_at`

func scanService(row pgx.Row) (*ServiceRecord, error) {
	var s ServiceRecord
	err := row.Scan(&s.ID, &s.ClientID, &s.ProviderID, &s.ServiceDate, &s.ServiceType, &s.Units, &s.Rate, &s.TotalAmount,
		&s.BillingStatus, &s.DocumentationCompleted, &s.Notes, &s.ServiceLocation, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *ServiceRecord) error {
	s.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO services (id, client_id, provider_id, service_date, service_type, units, rate, total_amount,
			billing_status, documentation_completed, notes, service_location, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		s.ID, s.ClientID, s.ProviderID, s.ServiceDate, s.ServiceType, s.Units, s.Rate, s.TotalAmount,
		s.BillingStatus, s.DocumentationCompleted, s.Notes, s.ServiceLocation, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	s, err := scanService(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+serviceCols+` FROM services WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "service")
	}
	return s, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*ServiceRecord, int, error) {
	where := ``
	var args []interface{}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		where = ` WHERE client_id = $1`
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM services`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	query := `SELECT ` + serviceCols + ` FROM services` + where +
		fmt.Sprintf(` ORDER BY service_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	items := []*ServiceRecord{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

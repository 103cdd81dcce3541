package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/auth"
	"github.com/adolbicare/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const memberCols = `id, external_id, name, email, login_method, role, active, credentials,
	license_number, license_expiration, npi_number, phone, max_caseload, last_signed_in, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.ExternalID, &m.Name, &m.Email, &m.LoginMethod, &m.Role, &m.Active, &m.Credentials,
		&m.LicenseNumber, &m.LicenseExpiration, &m.NPINumber, &m.Phone, &m.MaxCaseload, &m.LastSignedIn,
		&m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := scanMember(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+memberCols+` FROM users WHERE id = $1 AND role = ANY($2)`, id, auth.StaffRoles))
	if err != nil {
		return nil, apperr.FromPgx(err, "staff member")
	}
	return m, nil
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Member, int, error) {
	const where = ` FROM users WHERE role = ANY($1) AND (NOT $2 OR active)`
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*)`+where, auth.StaffRoles, activeOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	rows, err := conn.Query(ctx, `SELECT `+memberCols+where+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		auth.StaffRoles, activeOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	items := []*Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Upsert(ctx context.Context, m *Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (id, external_id, name, email, login_method, role, active, credentials,
			license_number, license_expiration, npi_number, phone, max_caseload)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role, active = EXCLUDED.active,
			credentials = EXCLUDED.credentials, license_number = EXCLUDED.license_number,
			license_expiration = EXCLUDED.license_expiration, npi_number = EXCLUDED.npi_number,
			phone = EXCLUDED.phone, max_caseload = EXCLUDED.max_caseload, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		m.ID, m.ExternalID, m.Name, m.Email, m.LoginMethod, m.Role, m.Active, m.Credentials,
		m.LicenseNumber, m.LicenseExpiration, m.NPINumber, m.Phone, m.MaxCaseload,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert staff member: %w", err)
	}
	return nil
}

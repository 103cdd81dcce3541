package clients

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

const clientCols = `id, first_name, last_name, date_of_birth, gender, ssn, phone, email,
	address, city, state, zip_code, guardian_name, guardian_phone, guardian_relationship,
	medicaid_id, insurance_provider, insurance_policy_number, primary_diagnosis, secondary_diagnosis,
	risk_level, status, admission_date, discharge_date, placement_type, placement_address,
	created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DateOfBirth, &c.Gender, &c.SSN, &c.Phone, &c.Email,
		&c.Address, &c.City, &c.State, &c.ZipCode, &c.GuardianName, &c.GuardianPhone, &c.GuardianRelationship,
		&c.MedicaidID, &c.InsuranceProvider, &c.InsurancePolicyNumber, &c.PrimaryDiagnosis, &c.SecondaryDiagnosis,
		&c.RiskLevel, &c.Status, &c.AdmissionDate, &c.DischargeDate, &c.PlacementType, &c.PlacementAddress,
		&c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Client) error {
	c.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO clients (id, first_name, last_name, date_of_birth, gender, ssn, phone, email,
			address, city, state, zip_code, guardian_name, guardian_phone, guardian_relationship,
			medicaid_id, insurance_provider, insurance_policy_number, primary_diagnosis, secondary_diagnosis,
			risk_level, status, admission_date, discharge_date, placement_type, placement_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.DateOfBirth, c.Gender, c.SSN, c.Phone, c.Email,
		c.Address, c.City, c.State, c.ZipCode, c.GuardianName, c.GuardianPhone, c.GuardianRelationship,
		c.MedicaidID, c.InsuranceProvider, c.InsurancePolicyNumber, c.PrimaryDiagnosis, c.SecondaryDiagnosis,
		c.RiskLevel, c.Status, c.AdmissionDate, c.DischargeDate, c.PlacementType, c.PlacementAddress,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	c, err := scanClient(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "client")
	}
	return c, nil
}

func (r *repoPG) Update(ctx context.Context, c *Client) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE clients SET first_name=$2, last_name=$3, phone=$4, email=$5,
			risk_level=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Phone, c.Email, c.RiskLevel, c.Status)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("client")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := `SELECT ` + clientCols + ` FROM clients` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	items := []*Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

package referrals

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

const referralCols = `id, client_id, referral_date, referral_source, referral_contact_name,
	referral_contact_phone, referral_contact_email, urgency_level, priority_score, assigned_to,
	status, response_due_date, intake_scheduled_date, notes, created_at, updated_at`

func scanReferral(row pgx.Row) (*Referral, error) {
	var r Referral
	err := row.Scan(&r.ID, &r.ClientID, &r.ReferralDate, &r.ReferralSource, &r.ReferralContactName,
		&r.ReferralContactPhone, &r.ReferralContactEmail, &r.UrgencyLevel, &r.PriorityScore, &r.AssignedTo,
		&r.Status, &r.ResponseDueDate, &r.IntakeScheduledDate, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Referral) error {
	r.ID = uuid.New()
	err := db.Conn(ctx, p.pool).QueryRow(ctx, `
		INSERT INTO referrals (id, client_id, referral_date, referral_source, referral_contact_name,
			referral_contact_phone, referral_contact_email, urgency_level, priority_score, assigned_to,
			status, response_due_date, intake_scheduled_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		r.ID, r.ClientID, r.ReferralDate, r.ReferralSource, r.ReferralContactName,
		r.ReferralContactPhone, r.ReferralContactEmail, r.UrgencyLevel, r.PriorityScore, r.AssignedTo,
		r.Status, r.ResponseDueDate, r.IntakeScheduledDate, r.Notes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Referral, error) {
	r, err := scanReferral(db.Conn(ctx, p.pool).QueryRow(ctx, `SELECT `+referralCols+` FROM referrals WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "referral")
	}
	return r, nil
}

func (p *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Referral, int, error) {
	conn := db.Conn(ctx, p.pool)
	var total int
	if err := conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM referrals WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count referrals: %w", err)
	}

	rows, err := conn.Query(ctx, `SELECT `+referralCols+` FROM referrals
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()

	items := []*Referral{}
	for rows.Next() {
		r, err := scanReferral(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}

package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/db"
)

type claimRepoPG struct{ pool *pgxpool.Pool }

func NewClaimRepoPG(pool *pgxpool.Pool) ClaimRepository { return &claimRepoPG{pool: pool} }

const claimCols = `id, client_id, service_id, claim_number, claim_date, service_date, amount,
	amount_paid, adjustment_amount, payer_name, payer_id, status, submission_date, payment_date,
	denial_date, denial_reason, appeal_notes, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(&c.ID, &c.ClientID, &c.ServiceID, &c.ClaimNumber, &c.ClaimDate, &c.ServiceDate, &c.Amount,
		&c.AmountPaid, &c.AdjustmentAmount, &c.Payer, &c.PayerID, &c.Status, &c.SubmissionDate, &c.PaymentDate,
		&c.DenialDate, &c.DenialReason, &c.AppealNotes, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *claimRepoPG) Create(ctx context.Context, c *Claim) error {
	c.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO billing_claims (id, client_id, service_id, claim_number, claim_date, service_date, amount,
			amount_paid, adjustment_amount, payer_name, payer_id, status, submission_date, payment_date,
			denial_date, denial_reason, appeal_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at`,
		c.ID, c.ClientID, c.ServiceID, c.ClaimNumber, c.ClaimDate, c.ServiceDate, c.Amount,
		c.AmountPaid, c.AdjustmentAmount, c.Payer, c.PayerID, c.Status, c.SubmissionDate, c.PaymentDate,
		c.DenialDate, c.DenialReason, c.AppealNotes,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (r *claimRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	c, err := scanClaim(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+claimCols+` FROM billing_claims WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPgx(err, "claim")
	}
	return c, nil
}

func (r *claimRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM billing_claims WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	rows, err := conn.Query(ctx, `SELECT `+claimCols+` FROM billing_claims
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	items := []*Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

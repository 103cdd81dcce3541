package billing

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusPaid      = "paid"
	StatusDenied    = "denied"
	StatusAppealed  = "appealed"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusSubmitted: true, StatusPaid: true, StatusDenied: true, StatusAppealed: true,
}

// Claim maps to the billing_claims table. Amounts are whole dollars.
type Claim struct {
	ID               uuid.UUID  `json:"id"`
	ClientID         uuid.UUID  `json:"clientId"`
	ServiceID        *uuid.UUID `json:"serviceId,omitempty"`
	ClaimNumber      string     `json:"claimNumber"`
	ClaimDate        *time.Time `json:"claimDate,omitempty"`
	ServiceDate      time.Time  `json:"serviceDate"`
	Amount           int64      `json:"amount"`
	AmountPaid       *int64     `json:"amountPaid,omitempty"`
	AdjustmentAmount *int64     `json:"adjustmentAmount,omitempty"`
	Payer            string     `json:"payer"`
	PayerID          *string    `json:"payerId,omitempty"`
	Status           string     `json:"status"`
	SubmissionDate   *time.Time `json:"submissionDate,omitempty"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
	DenialDate       *time.Time `json:"denialDate,omitempty"`
	DenialReason     *string    `json:"denialReason,omitempty"`
	AppealNotes      *string    `json:"appealNotes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Outstanding is the billed amount not yet paid or adjusted.
func (c *Claim) Outstanding() int64 {
	out := c.Amount
	if c.AmountPaid != nil {
		out -= *c.AmountPaid
	}
	if c.AdjustmentAmount != nil {
		out -= *c.AdjustmentAmount
	}
	if out < 0 {
		return 0
	}
	return out
}

package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
)

type Service struct {
	claims ClaimRepository
	now    func() time.Time
}

func NewService(claims ClaimRepository) *Service {
	return &Service{claims: claims, now: time.Now}
}

func (s *Service) CreateClaim(ctx context.Context, c *Claim) error {
	if c.ClientID == uuid.Nil {
		return apperr.Invalid("clientId is required")
	}
	c.ClaimNumber = strings.TrimSpace(c.ClaimNumber)
	if c.ClaimNumber == "" {
		return apperr.Invalid("claimNumber is required")
	}
	if c.ServiceDate.IsZero() {
		return apperr.Invalid("serviceDate is required")
	}
	if c.Amount <= 0 {
		return apperr.Invalid("amount must be positive")
	}
	c.Payer = strings.TrimSpace(c.Payer)
	if c.Payer == "" {
		return apperr.Invalid("payer is required")
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if !validStatuses[c.Status] {
		return apperr.Invalid("invalid claim status: %s", c.Status)
	}
	if c.ClaimDate == nil {
		now := s.now()
		c.ClaimDate = &now
	}
	return s.claims.Create(ctx, c)
}

func (s *Service) GetClaim(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.claims.GetByID(ctx, id)
}

func (s *Service) ListClaims(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, "", limit, offset)
}

func (s *Service) ListPendingClaims(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, StatusPending, limit, offset)
}

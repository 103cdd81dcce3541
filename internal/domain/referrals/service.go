package referrals

import (
	"context"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *Referral) error {
	if r.ReferralDate.IsZero() {
		return apperr.Invalid("referralDate is required")
	}
	if r.UrgencyLevel == "" {
		r.UrgencyLevel = UrgencyRoutine
	}
	if !validUrgency[r.UrgencyLevel] {
		return apperr.Invalid("invalid urgencyLevel: %s", r.UrgencyLevel)
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !validStatuses[r.Status] {
		return apperr.Invalid("invalid status: %s", r.Status)
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Referral, int, error) {
	return s.repo.List(ctx, "", limit, offset)
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*Referral, int, error) {
	return s.repo.List(ctx, StatusPending, limit, offset)
}

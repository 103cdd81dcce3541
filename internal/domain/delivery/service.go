package delivery

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, rec *ServiceRecord) error {
	if rec.ClientID == uuid.Nil {
		return apperr.Invalid("clientId is required")
	}
	if rec.ServiceDate.IsZero() {
		return apperr.Invalid("serviceDate is required")
	}
	rec.ServiceType = strings.TrimSpace(rec.ServiceType)
	if rec.ServiceType == "" {
		return apperr.Invalid("serviceType is required")
	}
	if rec.Status == "" {
		rec.Status = StatusScheduled
	}
	if !validStatuses[rec.Status] {
		return apperr.Invalid("invalid status: %s", rec.Status)
	}
	if rec.BillingStatus == "" {
		rec.BillingStatus = BillingPending
	}
	if !validBillingStatuses[rec.BillingStatus] {
		return apperr.Invalid("invalid billingStatus: %s", rec.BillingStatus)
	}
	if rec.TotalAmount == nil && rec.Units != nil && rec.Rate != nil {
		total := *rec.Units * *rec.Rate
		rec.TotalAmount = &total
	}
	return s.repo.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*ServiceRecord, int, error) {
	return s.repo.List(ctx, Filter{}, limit, offset)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*ServiceRecord, int, error) {
	return s.repo.List(ctx, Filter{ClientID: &clientID}, limit, offset)
}

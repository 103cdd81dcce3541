package crisis

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/domain/clients"
	"github.com/adolbicare/clinic/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, e *Event) error {
	if e.ClientID == uuid.Nil {
		return apperr.Invalid("clientId is required")
	}
	if e.EventDate.IsZero() {
		return apperr.Invalid("eventDate is required")
	}
	e.CrisisType = strings.TrimSpace(e.CrisisType)
	if e.CrisisType == "" {
		return apperr.Invalid("crisisType is required")
	}
	if e.RiskLevel == "" {
		return apperr.Invalid("riskLevel is required")
	}
	if !clients.ValidRiskLevel(e.RiskLevel) {
		return apperr.Invalid("invalid riskLevel: %s", e.RiskLevel)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if !validStatuses[e.Status] {
		return apperr.Invalid("invalid status: %s", e.Status)
	}
	if e.FollowUpDueDate != nil {
		e.FollowUpRequired = true
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Event, int, error) {
	return s.repo.List(ctx, Filter{}, limit, offset)
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Event, int, error) {
	return s.repo.List(ctx, Filter{Status: StatusActive}, limit, offset)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	return s.repo.List(ctx, Filter{ClientID: &clientID}, limit, offset)
}

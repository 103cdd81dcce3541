package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, false, limit, offset)
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, true, limit, offset)
}

// Save creates or refreshes a staff account keyed by its external id.
func (s *Service) Save(ctx context.Context, m *Member) error {
	if m.ExternalID == nil || *m.ExternalID == "" {
		return apperr.Invalid("externalId is required")
	}
	if !auth.HasAnyRole([]string{m.Role}, auth.StaffRoles...) || m.Role == auth.RoleAdmin {
		return apperr.Invalid("role %q is not a staff role", m.Role)
	}
	return s.repo.Upsert(ctx, m)
}

package clients

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

func (s *Service) Create(ctx context.Context, c *Client) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.FirstName == "" {
		return apperr.Invalid("firstName is required")
	}
	if c.LastName == "" {
		return apperr.Invalid("lastName is required")
	}
	if c.RiskLevel == "" {
		c.RiskLevel = RiskLow
	}
	if !validRiskLevels[c.RiskLevel] {
		return apperr.Invalid("invalid riskLevel: %s", c.RiskLevel)
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !validStatuses[c.Status] {
		return apperr.Invalid("invalid status: %s", c.Status)
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies p to the stored client and returns the result.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Client, error) {
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return nil, apperr.Invalid("firstName must not be empty")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		return nil, apperr.Invalid("lastName must not be empty")
	}
	if p.RiskLevel != nil && !validRiskLevels[*p.RiskLevel] {
		return nil, apperr.Invalid("invalid riskLevel: %s", *p.RiskLevel)
	}
	if p.Status != nil && !validStatuses[*p.Status] {
		return nil, apperr.Invalid("invalid status: %s", *p.Status)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(c)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.Invalid("invalid status: %s", f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	return s.repo.List(ctx, Filter{Status: StatusActive}, limit, offset)
}

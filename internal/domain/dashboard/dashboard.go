// Package dashboard serves the headline counters shown on the clinic home page.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adolbicare/clinic/internal/platform/db"
)

type Stats struct {
	ActiveClients       int   `json:"activeClients"`
	PendingReferrals    int   `json:"pendingReferrals"`
	ActiveCrisis        int   `json:"activeCrisis"`
	PendingClaimsAmount int64 `json:"pendingClaimsAmount"`
}

type StatsRepository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clients WHERE status = 'active'),
			(SELECT COUNT(*) FROM referrals WHERE status = 'pending'),
			(SELECT COUNT(*) FROM crisis_events WHERE status = 'active'),
			(SELECT COALESCE(SUM(amount), 0) FROM billing_claims WHERE status = 'pending')`,
	).Scan(&s.ActiveClients, &s.PendingReferrals, &s.ActiveCrisis, &s.PendingClaimsAmount)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}

type Service struct {
	repo   StatsRepository
	logger zerolog.Logger
}

func NewService(repo StatsRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Stats never fails: a store error is logged and reported as all zeros.
func (s *Service) Stats(ctx context.Context) Stats {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get dashboard stats")
		return Stats{}
	}
	return *st
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/stats", h.GetStats)
}

func (h *Handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Stats(c.Request().Context()))
}

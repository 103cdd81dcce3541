package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adolbicare/clinic/internal/config"
	"github.com/adolbicare/clinic/internal/domain/billing"
	"github.com/adolbicare/clinic/internal/domain/clients"
	"github.com/adolbicare/clinic/internal/domain/crisis"
	"github.com/adolbicare/clinic/internal/domain/dashboard"
	"github.com/adolbicare/clinic/internal/domain/delivery"
	"github.com/adolbicare/clinic/internal/domain/documents"
	"github.com/adolbicare/clinic/internal/domain/eia"
	"github.com/adolbicare/clinic/internal/domain/referrals"
	"github.com/adolbicare/clinic/internal/domain/staff"
	"github.com/adolbicare/clinic/internal/platform/auth"
	"github.com/adolbicare/clinic/internal/platform/db"
	"github.com/adolbicare/clinic/internal/platform/llm"
	"github.com/adolbicare/clinic/internal/platform/logging"
	"github.com/adolbicare/clinic/internal/platform/middleware"
	"github.com/adolbicare/clinic/internal/platform/websocket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Adolbi Care clinic API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				fmt.Println("---------- ---------------------------------------- ---------- --------------------")
				for _, s := range statuses {
					status, appliedAt := "pending", ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Down(ctx, steps)
				if err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Printf("Rolled back %d migration(s).\n", count)
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	return cmd
}

func withMigrator(fn func(ctx context.Context, m *db.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, db.NewMigrator(pool, cfg.MigrationsDir))
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser := logging.New(logging.Options{
		Development: cfg.IsDev(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	defer logCloser.Close()
	logStartup(logger, cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store, healthChecks, err := newContextStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session store")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	logger.Info().Str("store", cfg.SessionStore).Msg("session context store ready")

	provider, err := llm.New(llm.Config{
		Provider: cfg.LLMProvider,
		BaseURL:  cfg.LLMBaseURL,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure llm provider")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", eia.SessionHeader},
	}))
	e.Use(middleware.BodyLimit("1M", "10M"))

	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(authConfig(cfg)))
	}
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, healthChecks))

	apiV1 := e.Group("/api/v1", auth.RequireAuth())
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           10 * time.Minute,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(requestTimeouts(cfg)))

	// Clinic records
	clientSvc := clients.NewService(clients.NewRepoPG(pool))
	clients.NewHandler(clientSvc).RegisterRoutes(apiV1)

	referralSvc := referrals.NewService(referrals.NewRepoPG(pool))
	referrals.NewHandler(referralSvc).RegisterRoutes(apiV1)

	crisisSvc := crisis.NewService(crisis.NewRepoPG(pool))
	crisis.NewHandler(crisisSvc).RegisterRoutes(apiV1)

	deliverySvc := delivery.NewService(delivery.NewRepoPG(pool))
	delivery.NewHandler(deliverySvc).RegisterRoutes(apiV1)

	billingSvc := billing.NewService(billing.NewClaimRepoPG(pool))
	billing.NewHandler(billingSvc).RegisterRoutes(apiV1)

	staffSvc := staff.NewService(staff.NewRepoPG(pool))
	staff.NewHandler(staffSvc).RegisterRoutes(apiV1)

	docSvc := documents.NewService(
		documents.NewWorkflowRepoPG(pool),
		documents.NewDocumentRepoPG(pool),
		documents.NewTemplateRepoPG(pool),
	)
	documents.NewHandler(docSvc).RegisterRoutes(apiV1)

	dashSvc := dashboard.NewService(dashboard.NewStatsRepoPG(pool), logger)
	dashboard.NewHandler(dashSvc).RegisterRoutes(apiV1)

	// Assistant
	hub := websocket.NewHub(logger)
	contexts := eia.NewBroadcaster(store, hub, logger)
	dispatcher := eia.NewDispatcher(provider, logger)
	widgets := eia.NewWidgets(contexts, dispatcher, cfg.SessionTTL, logger)
	summaries := eia.NewSummaryBuilder(eia.Sources{
		Clients:       clientSvc,
		Referrals:     referralSvc,
		Crisis:        crisisSvc,
		Services:      deliverySvc,
		Claims:        billingSvc,
		Staff:         staffSvc,
		Documentation: docSvc,
		Dashboard:     dashSvc,
	})
	eia.NewHandler(contexts, dispatcher, widgets, summaries,
		websocket.NewHandler(hub, cfg.CORSOrigins)).RegisterRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func authConfig(cfg *config.Config) auth.JWTConfig {
	jc := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
	}
	if cfg.AuthSigningKey != "" {
		jc.SigningKey = []byte(cfg.AuthSigningKey)
	}
	return jc
}

// newContextStore picks the session context store. The Redis store also
// contributes a health check.
func newContextStore(cfg *config.Config) (eia.ContextStore, map[string]db.Check, error) {
	switch cfg.SessionStore {
	case "redis":
		store, err := eia.NewRedisContextStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, map[string]db.Check{"redis": store.Ping}, nil
	case "", "memory":
		return eia.NewMemoryContextStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

// requestTimeouts bounds ordinary API calls. Generation and chat wait for
// the LLM client instead, and the websocket stream has no deadline.
func requestTimeouts(cfg *config.Config) middleware.TimeoutConfig {
	return middleware.TimeoutConfig{
		Default: 30 * time.Second,
		Overrides: []middleware.TimeoutOverride{
			{Prefix: "/api/v1/eia/documents", Timeout: cfg.LLMTimeout},
			{Prefix: "/api/v1/eia/chat", Timeout: cfg.LLMTimeout},
			{Prefix: "/api/v1/eia/widget/messages", Timeout: cfg.LLMTimeout},
		},
		Skip: []string{"/api/v1/eia/ws"},
	}
}

func logStartup(logger zerolog.Logger, cfg *config.Config) {
	logger.Info().
		Str("env", cfg.Env).
		Str("auth_mode", cfg.ResolvedAuthMode()).
		Str("llm_provider", cfg.LLMProvider).
		Str("session_store", cfg.SessionStore).
		Msg("configuration loaded")
}

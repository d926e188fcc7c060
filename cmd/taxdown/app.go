package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mjmurray03/taxdown/internal/analyzer"
	"github.com/mjmurray03/taxdown/internal/config"
	"github.com/mjmurray03/taxdown/internal/database"
	"github.com/mjmurray03/taxdown/internal/ingest"
	"github.com/mjmurray03/taxdown/internal/logger"
	"github.com/mjmurray03/taxdown/internal/repository"
)

// readinessTimeout bounds the preflight database ping every subcommand
// runs before doing real work, adapted from the teacher's
// HealthCheckTimeout for HTTP readiness probes.
const readinessTimeout = 2 * time.Second

// app bundles the wired dependencies every subcommand needs.
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.Database
	properties   repository.PropertyRepository
	subdivisions repository.SubdivisionRepository
	analyses     repository.AnalysisRepository
	audit        repository.AuditRepository
	orchestrator analyzer.Orchestrator
	pipeline     *ingest.Pipeline
}

// newApp loads configuration, opens the database pool, and wires every
// repository and service the CLI commands use.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Env)

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	properties := repository.NewPropertyRepository(db)
	subdivisions := repository.NewSubdivisionRepository(db)
	analyses := repository.NewAnalysisRepository(db)
	audit := repository.NewAuditRepository(db)

	return &app{
		cfg:          cfg,
		log:          log,
		db:           db,
		properties:   properties,
		subdivisions: subdivisions,
		analyses:     analyses,
		audit:        audit,
		orchestrator: analyzer.New(properties, subdivisions, analyses, cfg.Analysis, log),
		pipeline:     ingest.NewPipeline(db, properties, subdivisions, audit, cfg.Ingest, log),
	}, nil
}

// checkReady pings the database with a bounded timeout before a
// subcommand starts real work, logging ready/not_ready the way the
// teacher's /health/ready endpoint does for an HTTP client.
func (a *app) checkReady(ctx context.Context) error {
	readyCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if err := a.db.Ping(readyCtx); err != nil {
		a.log.Error("database not ready", err, map[string]interface{}{"timeout": readinessTimeout.String()})
		return fmt.Errorf("database not ready: %w", err)
	}
	a.log.Info("database ready", nil)
	return nil
}

func (a *app) close() {
	a.db.Close()
}

package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"refineboard/internal/config"
	"refineboard/internal/database"
	"refineboard/internal/logging"
	"refineboard/internal/persona"
	"refineboard/internal/repository"
	"refineboard/internal/server"
	"refineboard/internal/telemetry"
)

// @title           Refineboard API
// @version         1.0
// @description     Kanban workspaces with AI-assisted card refinement.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, continuing without error reporting")
	}
	defer logging.Flush()

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		log.WithError(err).Warn("Tracing disabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Telemetry shutdown failed")
		}
	}()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	seeds, err := persona.Load(cfg.PersonasFile)
	if err != nil {
		log.Fatalf("Loading personas failed: %v", err)
	}
	if err := persona.Apply(ctx, repository.NewPersonaRepository(db), seeds); err != nil {
		log.Fatalf("Seeding personas failed: %v", err)
	}

	s, err := server.Init(cfg, db)
	if err != nil {
		log.Fatalf("Server initialization failed: %v", err)
	}

	s.Run()
}

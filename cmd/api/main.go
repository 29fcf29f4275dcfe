package main

import (
	"log"
	"os"
	"strings"

	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Shutdown()

	// Single-process deployments run the digest scheduler in the API;
	// larger ones run ./cmd/alerts separately and leave this off.
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RUN_ALERTS_SCHEDULER")), "true") {
		if err := app.StartScheduler(); err != nil {
			log.Fatalf("start alerts scheduler: %v", err)
		}
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

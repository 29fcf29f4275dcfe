package main

// Runs the job alert digest scheduler as a standalone process:
//   go run ./cmd/alerts
//
// With -run-once=daily|weekly it fires a single digest and exits, which is
// handy for cron-less environments and for smoke testing.

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/shared/config"
)

func main() {
	runOnce := flag.String("run-once", "", "run a single digest (daily or weekly) and exit")
	flag.Parse()

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Shutdown()

	if *runOnce != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		sent, err := app.AlertsService.RunDigest(ctx, *runOnce)
		if err != nil {
			log.Fatalf("run %s digest: %v", *runOnce, err)
		}
		app.Dispatcher.Wait()
		log.Printf("%s digest complete, %d sent", *runOnce, sent)
		return
	}

	if err := app.StartScheduler(); err != nil {
		log.Fatalf("start alerts scheduler: %v", err)
	}
	log.Printf("alerts scheduler running (daily=%q weekly=%q)", cfg.AlertsDailySpec, cfg.AlertsWeeklySpec)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

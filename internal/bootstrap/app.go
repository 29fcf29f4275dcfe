package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/alerts"
	"jobboard-backend/internal/applications"
	googleauth "jobboard-backend/internal/auth"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/ratelimit"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Ledger     ratelimit.Ledger
	Mailer     notify.Mailer
	Queue      notify.QueueClient
	Dispatcher *notify.Dispatcher

	UsersRepo        users.Repo
	JobsRepo         jobs.Repo
	ApplicationsRepo applications.Repo
	PreferencesRepo  preferences.Repo

	UsersService        *users.Service
	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	PreferencesService  *preferences.Service
	AlertsService       *alerts.Service
	AlertsScheduler     *alerts.Scheduler

	GoogleAuth *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}

	if err := buildNotify(app); err != nil {
		return nil, err
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		UsersHandler:        users.NewHandler(app.UsersService),
		JobsHandler:         jobs.NewHandler(app.JobsService),
		ApplicationsHandler: applications.NewHandler(app.ApplicationsService),
		PreferencesHandler:  preferences.NewHandler(app.PreferencesService),
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildNotify(app *App) error {
	cfg := app.Config
	ctx := context.Background()

	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			if !isDevLike(cfg.Env) {
				return err
			}
			log.Printf("bootstrap: redis connect failed; using in-memory rate-limit ledger: %v", err)
			app.Ledger = ratelimit.NewMemoryLedger(nil)
		} else {
			app.Ledger = &ratelimit.RedisLedger{Client: client}
		}
	} else {
		app.Ledger = ratelimit.NewMemoryLedger(nil)
	}

	if strings.TrimSpace(cfg.AWSRegion) != "" && !isDevLike(cfg.Env) {
		mailer, err := notify.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFromAddress, cfg.MailFromName)
		if err != nil {
			return err
		}
		app.Mailer = mailer
	} else {
		app.Mailer = notify.NewMemoryMailer()
	}

	if strings.TrimSpace(cfg.NotifyQueueURL) != "" {
		queue, err := notify.NewSQSQueue(ctx)
		if err != nil {
			return err
		}
		app.Queue = queue
	}
	return nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.PreferencesRepo = &preferences.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.PreferencesRepo = preferences.NewMemoryRepo()
	}

	orch := notify.NewOrchestrator(notify.NewGate(app.PreferencesRepo), app.Ledger)
	if raw := strings.TrimSpace(app.Config.SuppressionWindow); raw != "" {
		if window, err := time.ParseDuration(raw); err == nil && window > 0 {
			orch.Window = window
		} else {
			log.Printf("bootstrap: invalid NOTIFY_SUPPRESSION_WINDOW=%q; using default", raw)
		}
	}
	app.Dispatcher = notify.NewDispatcher(orch, app.Mailer)
	app.Dispatcher.Queue = app.Queue
	app.Dispatcher.Markers = app.ApplicationsRepo

	app.UsersService = users.NewService(app.UsersRepo)
	app.JobsService = jobs.NewService(app.JobsRepo)
	app.PreferencesService = preferences.NewService(app.PreferencesRepo)
	app.ApplicationsService = applications.NewService(app.ApplicationsRepo, app.JobsService, app.Dispatcher)
	app.AlertsService = alerts.NewService(app.JobsService, app.UsersRepo, app.PreferencesRepo, app.Dispatcher)

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
		app.PreferencesService,
	)
}

// StartScheduler wires and starts the job alert digests. Callers that only
// serve HTTP (or only run the worker) skip it.
func (a *App) StartScheduler() error {
	sched, err := alerts.NewScheduler(a.AlertsService, a.Config.AlertsDailySpec, a.Config.AlertsWeeklySpec)
	if err != nil {
		return err
	}
	a.AlertsScheduler = sched
	sched.Start()
	return nil
}

// Shutdown drains in-flight notification deliveries and stops the scheduler.
func (a *App) Shutdown() {
	if a.AlertsScheduler != nil {
		a.AlertsScheduler.Stop()
	}
	if a.Dispatcher != nil {
		a.Dispatcher.Wait()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/shared/telemetry"
)

// Scheduler runs the daily and weekly digests on cron specs.
type Scheduler struct {
	svc  *Service
	cron *cron.Cron
}

// NewScheduler registers both digest jobs. Specs use standard five-field
// cron syntax, e.g. "0 8 * * *" and "0 8 * * MON".
func NewScheduler(svc *Service, dailySpec, weeklySpec string) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	add := func(spec, cadence string) error {
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if _, err := svc.RunDigest(ctx, cadence); err != nil {
				telemetry.Error("alerts.digest.run_failed", map[string]any{
					"cadence": cadence,
					"error":   err.Error(),
				})
			}
		})
		if err != nil {
			return fmt.Errorf("schedule %s digest (%q): %w", cadence, spec, err)
		}
		return nil
	}

	if err := add(dailySpec, preferences.JobAlertsDaily); err != nil {
		return nil, err
	}
	if err := add(weeklySpec, preferences.JobAlertsWeekly); err != nil {
		return nil, err
	}
	return &Scheduler{svc: svc, cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	telemetry.Info("alerts.scheduler.started", nil)
}

// Stop halts scheduling and waits for any running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	telemetry.Info("alerts.scheduler.stopped", nil)
}

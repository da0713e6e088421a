// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/student-records/internal/repo"
)

// Job is a named task run at each time matching Spec (standard cron or @every / @daily descriptors).
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Start registers jobs and starts the cron. stop waits for running jobs to finish.
// An invalid spec fails before anything is scheduled.
func Start(ctx context.Context, jobs ...Job) (stop func(), err error) {
	c := cron.New()
	for _, j := range jobs {
		if _, err := c.AddFunc(j.Spec, func() { runJob(ctx, j) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", j.Name, j.Spec, err)
		}
		slog.Info("scheduler: added job", "job", j.Name, "spec", j.Spec)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

func runJob(ctx context.Context, j Job) {
	start := time.Now()
	if err := j.Run(ctx); err != nil {
		slog.Error("scheduler: job failed", "job", j.Name, "error", err)
		return
	}
	slog.Debug("scheduler: job finished", "job", j.Name, "duration_ms", time.Since(start).Milliseconds())
}

// AuditPrune returns a job deleting audit entries older than retention.
// now is injectable for tests; nil means time.Now.
func AuditPrune(spec string, audit *repo.AuditRepo, retention time.Duration, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "audit-prune",
		Spec: spec,
		Run: func(ctx context.Context) error {
			n, err := audit.PruneBefore(ctx, now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				slog.Info("pruned audit entries", "count", n, "retention", retention.String())
			}
			return nil
		},
	}
}

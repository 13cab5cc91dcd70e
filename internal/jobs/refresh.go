package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/services"
)

// RefreshJob re-fetches the dataset on a fixed interval so long-running
// sessions pick up upstream card additions without a restart.
type RefreshJob struct {
	scheduler *gocron.Scheduler
	session   services.SessionService
	interval  time.Duration
	log       *logger.Logger
}

// NewRefreshJob creates the job. An interval of zero disables it.
func NewRefreshJob(session services.SessionService, interval time.Duration) *RefreshJob {
	return &RefreshJob{
		scheduler: gocron.NewScheduler(time.UTC),
		session:   session,
		interval:  interval,
		log:       logger.Default().WithPrefix("refresh"),
	}
}

// Start begins the periodic refresh in the background.
func (j *RefreshJob) Start() {
	if j.interval <= 0 {
		j.log.Debug("periodic refresh disabled")
		return
	}
	j.scheduler.Every(j.interval).Do(j.run)
	j.scheduler.StartAsync()
	j.log.Info("periodic dataset refresh every %s", j.interval)
}

// Stop terminates the scheduled refresh.
func (j *RefreshJob) Stop() {
	j.scheduler.Stop()
}

func (j *RefreshJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.session.Refresh(ctx); err != nil {
		j.log.Warn("dataset refresh failed: %v", err)
		return
	}
	j.log.Debug("dataset refresh completed")
}

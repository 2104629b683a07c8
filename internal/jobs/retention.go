package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/metrics"
)

type AuditPurger interface {
	PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler runs the housekeeping jobs of the service on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	purger AuditPurger
	days   int
	now    func() time.Time
}

func NewScheduler(purger AuditPurger, cfg config.RetentionConfig) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		purger: purger,
		days:   cfg.AuditDays,
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.runRetention); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.WithField("jobs", len(s.cron.Entries())).Info("Job scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logrus.Warn("Job scheduler stop timed out")
	}
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.PurgeAudit(ctx); err != nil {
		logrus.WithError(err).Error("Audit retention run failed")
	}
}

// PurgeAudit removes audit entries older than the retention window.
func (s *Scheduler) PurgeAudit(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.days)
	deleted, err := s.purger.PurgeAuditLogs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	metrics.RecordRetention(deleted)
	logrus.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	}).Info("Audit retention completed")
	return deleted, nil
}

// Package scheduler runs cache synchronization on the draw calendar.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
	"github.com/yourusername/fourd-analyzer/internal/service"
)

// HorizonJob describes one recurring sync: a named cache horizon and how many
// days of history it covers.
type HorizonJob struct {
	Horizon string
	Days    int
}

// Scheduler manages cron-driven synchronization of the cache horizons.
type Scheduler struct {
	cron       *cron.Cron
	sync       service.Synchronizer
	logger     *logrus.Logger
	jobTimeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID

	now func() time.Time
}

// NewScheduler creates a scheduler over the given synchronizer. Times are
// evaluated in UTC.
func NewScheduler(synchronizer service.Synchronizer, logger *logrus.Logger) (*Scheduler, error) {
	if synchronizer == nil {
		return nil, fmt.Errorf("synchronizer is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		sync:       synchronizer,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 10 * time.Minute,
		now:        time.Now,
	}, nil
}

// ScheduleSync registers a recurring sync of one horizon on the given cron
// expression.
func (s *Scheduler) ScheduleSync(cronExpression string, job HorizonJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if job.Days <= 0 {
		return fmt.Errorf("horizon %q needs a positive day count, got %d", job.Horizon, job.Days)
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() { s.runSync(job) })
	if err != nil {
		return fmt.Errorf("failed to add job for horizon %q: %w", job.Horizon, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"horizon":  job.Horizon,
		"days":     job.Days,
		"schedule": cronExpression,
	}).Info("Sync job scheduled")

	return nil
}

func (s *Scheduler) runSync(job HorizonJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	to := models.DateOnly(s.now())
	from := to.AddDate(0, 0, -job.Days)

	log := s.logger.WithFields(logrus.Fields{
		"horizon": job.Horizon,
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
	})
	log.Info("Starting scheduled sync")

	records, err := s.sync.Synchronize(ctx, job.Horizon, from, to)
	if err != nil {
		log.WithError(err).Error("Scheduled sync failed")
		return
	}
	log.WithField("records", len(records)).Info("Scheduled sync completed")
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job time, or the zero time when the
// scheduler is idle.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if !entry.Valid() {
			continue
		}
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next
}

package cronjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/api/http/middleware"
	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// BatchRunner is implemented by service.ScheduleService.
type BatchRunner interface {
	GenerateBatch(ctx context.Context, projectIDs []string) (*domain.BatchResult, error)
}

// Scheduler runs batch generation over every unscheduled project on a
// six-field cron expression.
type Scheduler struct {
	runner  BatchRunner
	spec    string
	timeout time.Duration
	cron    *cron.Cron
}

func NewScheduler(runner BatchRunner, spec string, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Scheduler{
		runner:  runner,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("add batch job %q: %w", s.spec, err)
	}

	log.Printf("Cron scheduler started (batch generation on %q)", s.spec)
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("Cron scheduler stop: %v", ctx.Err())
	}
}

// RunOnce generates schedules for every project that has none yet.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = middleware.WithRequestID(ctx, "cron-"+uuid.NewString())

	log.Println("Nightly batch generation started...")
	res, err := s.runner.GenerateBatch(ctx, nil)
	if err != nil {
		log.Printf("Batch generation failed: %v", err)
		return
	}
	log.Printf("Batch generation completed: run_id=%s created=%d skipped=%d failed=%d",
		res.RunID, res.Created, res.Skipped, res.Failed)
}

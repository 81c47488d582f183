package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"rentalops-backend/internal/jobs"
	"rentalops-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.CreateMonthlyRentalInvoices, s.jobs.CreateMonthlyRentalInvoices)
	if err != nil {
		logger.Error("Failed to register CreateMonthlyRentalInvoices job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.ProvisionRentalWarehouses, s.jobs.ProvisionRentalWarehouses)
	if err != nil {
		logger.Error("Failed to register ProvisionRentalWarehouses job", "error", err)
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the cron scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

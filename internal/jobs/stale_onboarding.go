// File: internal/jobs/stale_onboarding.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/seller"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleOnboardingJob periodically reports profiles that have been stuck in
// the onboarding flow beyond the configured age. It only observes; nothing
// is mutated or deleted.
type StaleOnboardingJob struct {
	buyers        buyer.Repository
	sellers       seller.Repository
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewStaleOnboardingJob creates a new StaleOnboardingJob.
func NewStaleOnboardingJob(
	buyers buyer.Repository,
	sellers seller.Repository,
	logger *zap.Logger,
	cfg *config.Config,
) *StaleOnboardingJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &StaleOnboardingJob{
		buyers:        buyers,
		sellers:       sellers,
		logger:        logger.Named("StaleOnboardingJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *StaleOnboardingJob) SetupAndStart() error {
	jobSpec := j.cfg.StaleOnboardingJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Stale onboarding job schedule not defined (STALE_ONBOARDING_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule stale onboarding job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Stale onboarding job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *StaleOnboardingJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.cfg.StaleOnboardingAgeDays)

	staleBuyers, err := j.buyers.CountIncompleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Stale onboarding job: buyer count failed", zap.Error(err))
		return
	}
	staleSellers, err := j.sellers.CountIncompleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Stale onboarding job: seller count failed", zap.Error(err))
		return
	}

	if staleBuyers == 0 && staleSellers == 0 {
		j.logger.Info("Stale onboarding job run completed, nothing stale")
		return
	}
	j.logger.Warn("Profiles stuck in onboarding past the configured age",
		zap.Int64("stale_buyers", staleBuyers),
		zap.Int64("stale_sellers", staleSellers),
		zap.Time("cutoff", cutoff),
	)
}

// Stop gracefully stops the cron scheduler.
func (j *StaleOnboardingJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping stale onboarding job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Stale onboarding job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Stale onboarding job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}

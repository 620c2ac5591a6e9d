package scheduler

import (
	"context"
	"sync"
	"time"

	appbilling "github.com/mealflow/backend/internal/application/billing"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// MonthlyRunner executes one billing run over all active companies
type MonthlyRunner interface {
	Run(ctx context.Context) appbilling.RunSummary
}

// BillingCronSchedulerConfig holds configuration for the monthly billing scheduler
type BillingCronSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// RunDay is the day of month (1-28) the billing run fires
	RunDay int
	// RunHour is the hour (0-23) the billing run fires, UTC
	RunHour int
}

// DefaultBillingCronSchedulerConfig returns default scheduler configuration.
// Defaults to the 1st of the month at 02:00 UTC, after the previous month has
// fully closed in every timezone the service bills in.
func DefaultBillingCronSchedulerConfig() BillingCronSchedulerConfig {
	return BillingCronSchedulerConfig{
		Enabled: true,
		RunDay:  1,
		RunHour: 2,
	}
}

// BillingCronScheduler fires the monthly billing run. It ticks every minute
// and triggers when the configured day and hour arrive; a last-run guard
// keeps the run from firing twice within the same hour window.
type BillingCronScheduler struct {
	config BillingCronSchedulerConfig
	runner MonthlyRunner
	logger *zap.Logger
	now    func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt   *time.Time
	lastSummary *appbilling.RunSummary
}

// NewBillingCronScheduler creates a new monthly billing scheduler
func NewBillingCronScheduler(config BillingCronSchedulerConfig, runner MonthlyRunner, logger *zap.Logger) *BillingCronScheduler {
	return &BillingCronScheduler{
		config: config,
		runner: runner,
		logger: logger.Named("billing-scheduler"),
		now:    time.Now,
	}
}

// Start starts the scheduler loop
func (s *BillingCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Billing scheduler started",
		zap.Int("run_day", s.config.RunDay),
		zap.Int("run_hour", s.config.RunHour),
		zap.Time("next_run_at", s.NextRunAt()),
	)

	return nil
}

// Stop stops the scheduler and waits for a run in flight to finish
func (s *BillingCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Billing scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Billing scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *BillingCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.shouldRun(s.now().UTC()) {
				s.runBilling(ctx)
			}
		}
	}
}

// shouldRun reports whether the billing run is due at the given time. The
// window is the full hour so a missed minute tick cannot skip a month, and
// the last-run guard prevents a second fire inside the same window.
func (s *BillingCronScheduler) shouldRun(now time.Time) bool {
	if now.Day() != s.config.RunDay || now.Hour() != s.config.RunHour {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRunAt != nil &&
		s.lastRunAt.Year() == now.Year() &&
		s.lastRunAt.Month() == now.Month() &&
		s.lastRunAt.Day() == now.Day() {
		return false
	}
	return true
}

// runBilling executes one billing run and records its outcome
func (s *BillingCronScheduler) runBilling(ctx context.Context) {
	now := s.now().UTC()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	summary := s.runner.Run(ctx)

	s.mu.Lock()
	s.lastSummary = &summary
	s.mu.Unlock()

	s.logger.Info("Scheduled billing run complete",
		zap.Int("success_count", summary.SuccessCount),
		zap.Int("error_count", summary.ErrorCount),
	)
}

// TriggerManualRun triggers a billing run outside the schedule.
// Uses a background context so the run survives the triggering HTTP request.
func (s *BillingCronScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runBilling(context.Background())
	return nil
}

// NextRunAt returns when the next scheduled run will occur
func (s *BillingCronScheduler) NextRunAt() time.Time {
	now := s.now().UTC()
	next := time.Date(now.Year(), now.Month(), s.config.RunDay, s.config.RunHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// GetStatus returns the current status of the scheduler
func (s *BillingCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled":    s.config.Enabled,
		"is_running": s.isRunning,
		"run_day":    s.config.RunDay,
		"run_hour":   s.config.RunHour,
	}
	if s.lastRunAt != nil {
		status["last_run_at"] = s.lastRunAt.Format(time.RFC3339)
	}
	if s.lastSummary != nil {
		status["last_success_count"] = s.lastSummary.SuccessCount
		status["last_error_count"] = s.lastSummary.ErrorCount
	}
	return status
}

// GetLastRunAt returns when the last run occurred
func (s *BillingCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

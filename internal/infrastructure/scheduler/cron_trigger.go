package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants a daily job runs for
type TenantProvider interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CleanupSubmitter queues one cleanup job per tenant
type CleanupSubmitter interface {
	SubmitInvitationCleanup(tenantID uuid.UUID) error
}

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	Hour          int
	Minute        int
	CheckInterval time.Duration
}

// DefaultDailyTriggerConfig runs at 03:00, checked once a minute
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		Hour:          3,
		CheckInterval: time.Minute,
	}
}

// DailyTrigger submits invitation cleanup for every tenant once a day
type DailyTrigger struct {
	config    DailyTriggerConfig
	submitter CleanupSubmitter
	tenants   TenantProvider
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
	lastRunDate string
}

// NewDailyTrigger creates a daily trigger
func NewDailyTrigger(cfg DailyTriggerConfig, submitter CleanupSubmitter, tenants TenantProvider, logger *zap.Logger) *DailyTrigger {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if cfg.Hour < 0 || cfg.Hour > 23 {
		cfg.Hour = DefaultDailyTriggerConfig().Hour
	}
	if cfg.Minute < 0 || cfg.Minute > 59 {
		cfg.Minute = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config:    cfg,
		submitter: submitter,
		tenants:   tenants,
		logger:    logger.Named("daily_trigger"),
		now:       time.Now,
	}
}

// Start launches the check loop
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	t.running = true

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Daily trigger started",
		zap.Int("hour", t.config.Hour),
		zap.Int("minute", t.config.Minute),
		zap.Duration("check_interval", t.config.CheckInterval),
	)
	return nil
}

// Stop ends the check loop
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.check(ctx)
		}
	}
}

// check fires at most once per calendar day, on the first tick at or after
// the configured time. A process started after that time runs the same day.
func (t *DailyTrigger) check(ctx context.Context) bool {
	now := t.now()
	today := now.Format(time.DateOnly)

	t.mu.Lock()
	if t.lastRunDate == today {
		t.mu.Unlock()
		return false
	}
	due := now.Hour() > t.config.Hour ||
		(now.Hour() == t.config.Hour && now.Minute() >= t.config.Minute)
	if !due {
		t.mu.Unlock()
		return false
	}
	t.lastRunDate = today
	t.mu.Unlock()

	t.RunNow(ctx)
	return true
}

// RunNow submits cleanup for every tenant immediately and returns the number queued
func (t *DailyTrigger) RunNow(ctx context.Context) int {
	tenantIDs, err := t.tenants.ListTenantIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list tenants for invitation cleanup", zap.Error(err))
		return 0
	}

	queued := 0
	for _, tenantID := range tenantIDs {
		if err := t.submitter.SubmitInvitationCleanup(tenantID); err != nil {
			t.logger.Error("Failed to queue invitation cleanup",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		queued++
	}
	t.logger.Info("Invitation cleanup queued",
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("queued", queued),
	)
	return queued
}

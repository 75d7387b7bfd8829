package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a background job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType selects the executor of a job
type JobType string

const (
	// JobTypeReportArchive renders an inspection report and uploads it to object storage
	JobTypeReportArchive JobType = "INSPECTION_REPORT_ARCHIVE"
	// JobTypeInvitationCleanup purges stale invitation tokens of one tenant
	JobTypeInvitationCleanup JobType = "INVITATION_CLEANUP"
)

// Job is one unit of background work
type Job struct {
	ID       uuid.UUID
	Type     JobType
	TenantID uuid.UUID
	// SubjectID identifies the aggregate the job works on, if any
	SubjectID   uuid.UUID
	Status      JobStatus
	Error       string
	Attempts    int
	MaxRetries  int
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewJob creates a pending job
func NewJob(jobType JobType, tenantID, subjectID uuid.UUID, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		TenantID:   tenantID,
		SubjectID:  subjectID,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Attempts++
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err error) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// ShouldRetry reports whether a failed job has attempts left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.Attempts <= j.MaxRetries
}

func (j *Job) fields() []zap.Field {
	return []zap.Field{
		zap.String("job_id", j.ID.String()),
		zap.String("job_type", string(j.Type)),
		zap.String("tenant_id", j.TenantID.String()),
		zap.Int("attempt", j.Attempts),
	}
}

// JobExecutor runs jobs of one type
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// ExecutorFunc adapts a function to JobExecutor
type ExecutorFunc func(ctx context.Context, job *Job) error

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// Config holds scheduler configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     100,
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    30 * time.Second,
	}
}

// Stats is a snapshot of scheduler counters
type Stats struct {
	Succeeded int64
	Failed    int64
	Retried   int64
	Queued    int
}

// Scheduler runs jobs on a fixed worker pool fed by a bounded queue.
// Failed jobs are resubmitted after RetryDelay until RetryAttempts is exhausted.
type Scheduler struct {
	config    Config
	executors map[JobType]JobExecutor
	logger    *zap.Logger

	jobs    chan *Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	retries sync.WaitGroup

	succeeded atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64

	onFinish func(ctx context.Context, job *Job, err error)
}

// New creates a scheduler. Executors are registered with Register before Start.
func New(cfg Config, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:    cfg,
		executors: make(map[JobType]JobExecutor),
		logger:    logger.Named("scheduler"),
		jobs:      make(chan *Job, cfg.QueueSize),
	}
}

// Register installs the executor for a job type
func (s *Scheduler) Register(jobType JobType, executor JobExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[jobType] = executor
}

// OnFinish sets a hook called once per job after its final attempt
func (s *Scheduler) OnFinish(fn func(ctx context.Context, job *Job, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.retries.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped", zap.Int("abandoned_jobs", len(s.jobs)))
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the workers are active
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Submit queues a job without blocking
func (s *Scheduler) Submit(job *Job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return ErrSchedulerNotRunning
	}
	if _, ok := s.executors[job.Type]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job queued", job.fields()...)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// SubmitReportArchive queues the archival of a completed inspection's report
func (s *Scheduler) SubmitReportArchive(tenantID, inspectionID uuid.UUID) error {
	return s.Submit(NewJob(JobTypeReportArchive, tenantID, inspectionID, s.config.RetryAttempts))
}

// SubmitInvitationCleanup queues the purge of stale invitations of a tenant
func (s *Scheduler) SubmitInvitationCleanup(tenantID uuid.UUID) error {
	return s.Submit(NewJob(JobTypeInvitationCleanup, tenantID, uuid.Nil, s.config.RetryAttempts))
}

// Stats returns the current counters
func (s *Scheduler) Stats() Stats {
	return Stats{
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
		Retried:   s.retried.Load(),
		Queued:    len(s.jobs),
	}
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.process(ctx, job, id)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, job *Job, workerID int) {
	s.mu.RLock()
	executor := s.executors[job.Type]
	onFinish := s.onFinish
	s.mu.RUnlock()

	job.Start()
	log := s.logger.With(append(job.fields(), zap.Int("worker_id", workerID))...)
	log.Debug("Processing job")

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.execute(jobCtx, executor, job)
	cancel()

	if err == nil {
		job.Complete()
		s.succeeded.Add(1)
		log.Info("Job completed", zap.Duration("duration", job.CompletedAt.Sub(*job.StartedAt)))
		if onFinish != nil {
			onFinish(ctx, job, nil)
		}
		return
	}

	job.Fail(err)
	if !job.ShouldRetry() || ctx.Err() != nil {
		s.failed.Add(1)
		log.Error("Job failed", zap.Error(err))
		if onFinish != nil {
			onFinish(ctx, job, err)
		}
		return
	}

	s.retried.Add(1)
	log.Warn("Job failed, retrying", zap.Error(err), zap.Duration("delay", s.config.RetryDelay))
	s.scheduleRetry(ctx, job)
}

// execute shields the worker from panicking executors
func (s *Scheduler) execute(ctx context.Context, executor JobExecutor, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return executor.Execute(ctx, job)
}

func (s *Scheduler) scheduleRetry(ctx context.Context, job *Job) {
	s.retries.Add(1)
	go func() {
		defer s.retries.Done()
		timer := time.NewTimer(s.config.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		job.Status = JobStatusPending
		select {
		case s.jobs <- job:
		case <-ctx.Done():
		}
	}()
}

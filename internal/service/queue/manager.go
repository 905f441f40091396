package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
)

// Config carries the queue tuning knobs
type Config struct {
	// FetchLimit caps how many due jobs one tick claims
	FetchLimit int

	// MaxIdle bounds how long an idle shard sleeps between table checks
	MaxIdle time.Duration

	// ErrorRetryDelay spaces out retries after infrastructure errors
	ErrorRetryDelay time.Duration

	// DiscoveryInterval is how often the manager looks for owners with
	// pending jobs but no running shard
	DiscoveryInterval time.Duration

	// DiscoveryLimit caps owners picked up per discovery sweep
	DiscoveryLimit int

	// RetentionInterval is how often old jobs and logs are swept
	RetentionInterval time.Duration

	// JobRetention is how long terminal queue jobs are kept
	JobRetention time.Duration

	// LogRetention is how long delivery log rows are kept
	LogRetention time.Duration

	// DefaultTimeout applies to webhooks without a timeout of their own
	DefaultTimeout time.Duration

	// RetryDelaysMs is the backoff ladder between attempts
	RetryDelaysMs []int64
}

// DefaultConfig returns the production queue configuration
func DefaultConfig() Config {
	return Config{
		FetchLimit:        10,
		MaxIdle:           30 * time.Second,
		ErrorRetryDelay:   5 * time.Second,
		DiscoveryInterval: 30 * time.Second,
		DiscoveryLimit:    1000,
		RetentionInterval: time.Hour,
		JobRetention:      7 * 24 * time.Hour,
		LogRetention:      30 * 24 * time.Hour,
		DefaultTimeout:    30 * time.Second,
		RetryDelaysMs:     []int64{1000, 5000, 30000},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.FetchLimit <= 0 {
		c.FetchLimit = def.FetchLimit
	}
	if c.MaxIdle <= 0 {
		c.MaxIdle = def.MaxIdle
	}
	if c.ErrorRetryDelay <= 0 {
		c.ErrorRetryDelay = def.ErrorRetryDelay
	}
	if c.DiscoveryInterval <= 0 {
		c.DiscoveryInterval = def.DiscoveryInterval
	}
	if c.DiscoveryLimit <= 0 {
		c.DiscoveryLimit = def.DiscoveryLimit
	}
	if c.RetentionInterval <= 0 {
		c.RetentionInterval = def.RetentionInterval
	}
	if c.JobRetention <= 0 {
		c.JobRetention = def.JobRetention
	}
	if c.LogRetention <= 0 {
		c.LogRetention = def.LogRetention
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = def.DefaultTimeout
	}
	if len(c.RetryDelaysMs) == 0 {
		c.RetryDelaysMs = def.RetryDelaysMs
	}
	return c
}

// Manager owns the per-owner shards and the process-wide queue surface.
// Durable state is the queue_jobs table; the manager only decides which
// owner's goroutine is awake. It implements domain.QueueService.
type Manager struct {
	jobs     domain.QueueJobRepository
	webhooks domain.WebhookRepository
	logs     domain.DeliveryLogRepository
	client   domain.DeliveryClient
	notifier domain.WorkflowNotifier
	logger   logger.Logger
	cfg      Config

	mu      sync.Mutex
	shards  map[string]*Shard
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager creates the queue manager. Start must be called before jobs
// are processed; Enqueue works either way, jobs simply wait.
func NewManager(
	jobs domain.QueueJobRepository,
	webhooks domain.WebhookRepository,
	logs domain.DeliveryLogRepository,
	client domain.DeliveryClient,
	notifier domain.WorkflowNotifier,
	log logger.Logger,
	cfg Config,
) *Manager {
	return &Manager{
		jobs:     jobs,
		webhooks: webhooks,
		logs:     logs,
		client:   client,
		notifier: notifier,
		logger:   log,
		cfg:      cfg.withDefaults(),
		shards:   make(map[string]*Shard),
	}
}

// Start recovers jobs stranded in processing, spawns a shard per owner with
// pending work and begins the discovery and retention sweeps.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("queue manager is already running")
	}
	m.ctx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
	m.running = true
	m.mu.Unlock()

	recovered, err := m.jobs.ResetProcessing(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover in-flight jobs: %w", err)
	}
	if recovered > 0 {
		m.logger.WithField("jobs", recovered).Info("Recovered jobs stranded in processing")
	}

	owners, err := m.jobs.OwnersWithPending(ctx, m.cfg.DiscoveryLimit)
	if err != nil {
		return fmt.Errorf("failed to discover owners with pending jobs: %w", err)
	}
	for _, ownerID := range owners {
		m.ensureShard(ownerID)
	}

	m.wg.Add(2)
	go m.discoveryLoop()
	go m.retentionLoop()

	m.logger.WithField("shards", len(owners)).Info("Queue manager started")
	return nil
}

// Stop signals every shard and waits for in-flight deliveries to finish
// under their own deadlines.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()

	m.mu.Lock()
	m.shards = make(map[string]*Shard)
	m.mu.Unlock()

	m.logger.Info("Queue manager stopped")
}

// IsRunning reports whether the manager has been started
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// ensureShard returns the owner's shard, spawning it when absent. The
// caller must not hold m.mu.
func (m *Manager) ensureShard(ownerID string) *Shard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	if shard, ok := m.shards[ownerID]; ok {
		return shard
	}

	shard := newShard(ownerID, m.jobs, m.webhooks, m.logs, m.client, m.notifier, m.logger, m.cfg)
	m.shards[ownerID] = shard

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		shard.run(m.ctx)
	}()

	return shard
}

func (m *Manager) wakeOwner(ownerID string) {
	if shard := m.ensureShard(ownerID); shard != nil {
		shard.Wake()
	}
}

// discoveryLoop periodically picks up owners whose pending jobs arrived
// outside Enqueue, e.g. rows inserted by a replaced process or a retry-all.
func (m *Manager) discoveryLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.DiscoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			owners, err := m.jobs.OwnersWithPending(m.ctx, m.cfg.DiscoveryLimit)
			if err != nil {
				m.logger.WithField("error", err.Error()).Error("Shard discovery sweep failed")
				continue
			}
			for _, ownerID := range owners {
				m.ensureShard(ownerID)
			}
		}
	}
}

// retentionLoop sweeps terminal jobs and old delivery logs past their
// retention windows.
func (m *Manager) retentionLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.RetentionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sweepRetention(m.ctx)
		}
	}
}

func (m *Manager) sweepRetention(ctx context.Context) {
	now := time.Now().UTC()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deleted, err := m.jobs.DeleteTerminalOlderThan(ctx, now.Add(-m.cfg.JobRetention))
		if err != nil {
			return fmt.Errorf("failed to sweep terminal jobs: %w", err)
		}
		if deleted > 0 {
			m.logger.WithField("jobs", deleted).Info("Swept terminal queue jobs")
		}
		return nil
	})
	g.Go(func() error {
		deleted, err := m.logs.DeleteOlderThan(ctx, now.Add(-m.cfg.LogRetention))
		if err != nil {
			return fmt.Errorf("failed to sweep delivery logs: %w", err)
		}
		if deleted > 0 {
			m.logger.WithField("logs", deleted).Info("Swept delivery logs")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		m.logger.WithField("error", err.Error()).Error("Retention sweep failed")
	}
}

// Enqueue inserts one pending job due now and wakes the owner's shard
func (m *Manager) Enqueue(ctx context.Context, webhook *domain.Webhook, kind domain.EventKind, payload []byte) (string, error) {
	job := &domain.QueueJob{
		WebhookID:   webhook.ID,
		UserID:      webhook.UserID,
		EventKind:   kind,
		Payload:     payload,
		ScheduledAt: time.Now().UTC(),
	}
	if err := m.jobs.Create(ctx, job); err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	m.wakeOwner(webhook.UserID)
	return job.ID, nil
}

// RetryAllFailed flips the owner's failed jobs back to pending and wakes
// the shard to pick them up immediately
func (m *Manager) RetryAllFailed(ctx context.Context, ownerID string) (int64, error) {
	count, err := m.jobs.RetryAllFailed(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		m.wakeOwner(ownerID)
	}
	return count, nil
}

// Stats returns the owner's job counts by status
func (m *Manager) Stats(ctx context.Context, ownerID string) (*domain.QueueStats, error) {
	return m.jobs.CountByStatus(ctx, ownerID)
}

// GlobalStats returns process-wide job counts by status
func (m *Manager) GlobalStats(ctx context.Context) (*domain.QueueStats, error) {
	return m.jobs.GlobalStats(ctx)
}

// ListJobs returns a page of the owner's jobs plus the total
func (m *Manager) ListJobs(ctx context.Context, ownerID string, limit, offset int) ([]*domain.QueueJob, int, error) {
	return m.jobs.ListByOwner(ctx, ownerID, limit, offset)
}

// Package autofix runs the repair pipeline for classified sandbox errors.
// Errors are queued by urgency, attempted a bounded number of times through a
// caller-supplied Fixer, and surfaced through a callback when no automated
// strategy can help.
package autofix

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/apperror"
	"github.com/hookforge/hookforge/pkg/logger"
)

// Fixer attempts one automated repair of a classified error
type Fixer interface {
	Fix(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError) error
}

// UnfixableHandler receives errors the pipeline gave up on: manual-strategy
// classifications and errors that exhausted their fix attempts
type UnfixableHandler func(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError)

// Config carries the pipeline tuning knobs
type Config struct {
	// MaxConcurrentFixes caps fix attempts running at once
	MaxConcurrentFixes int

	// MaxRetries caps fix attempts per error
	MaxRetries int

	// BackoffBase seeds the exponential delay between attempts
	BackoffBase time.Duration

	// DedupTTL is how long a fixed error's hash suppresses resubmission
	DedupTTL time.Duration
}

// DefaultConfig returns the production pipeline configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentFixes: 2,
		MaxRetries:         3,
		BackoffBase:        time.Second,
		DedupTTL:           60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxConcurrentFixes <= 0 {
		c.MaxConcurrentFixes = def.MaxConcurrentFixes
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = def.BackoffBase
	}
	if c.DedupTTL <= 0 {
		c.DedupTTL = def.DedupTTL
	}
	return c
}

// Stats is a snapshot of the pipeline's counters
type Stats struct {
	Queued       int   `json:"queued"`
	InFlight     int   `json:"in_flight"`
	Submitted    int64 `json:"submitted"`
	Deduplicated int64 `json:"deduplicated"`
	Fixed        int64 `json:"fixed"`
	Exhausted    int64 `json:"exhausted"`
	Unfixable    int64 `json:"unfixable"`
}

// task is one queued fix attempt
type task struct {
	ownerID string
	cerr    *apperror.ClassifiedError
	seq     uint64
}

// taskHeap orders tasks by severity, then classification confidence, then
// arrival order. The most urgent, best-understood error is fixed first.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if ar, br := a.cerr.Severity.Rank(), b.cerr.Severity.Rank(); ar != br {
		return ar > br
	}
	if a.cerr.Confidence != b.cerr.Confidence {
		return a.cerr.Confidence > b.cerr.Confidence
	}
	return a.seq < b.seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(*task)) }

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Pipeline queues classified errors and drives fix attempts. It is safe for
// concurrent use.
type Pipeline struct {
	classifier  *apperror.Classifier
	fixer       Fixer
	onUnfixable UnfixableHandler
	logger      logger.Logger
	cfg         Config

	mu       sync.Mutex
	queue    taskHeap
	inflight map[string]struct{} // hashes queued or being fixed
	recent   map[string]time.Time
	seq      uint64
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// wake is buffered per worker; extra signals coalesce
	wake chan struct{}

	submitted    int64
	deduplicated int64
	fixed        int64
	exhausted    int64
	unfixable    int64
}

// NewPipeline creates the pipeline. onUnfixable may be nil.
func NewPipeline(fixer Fixer, onUnfixable UnfixableHandler, log logger.Logger, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		classifier:  apperror.NewClassifier(),
		fixer:       fixer,
		onUnfixable: onUnfixable,
		logger:      log,
		cfg:         cfg,
		inflight:    make(map[string]struct{}),
		recent:      make(map[string]time.Time),
		wake:        make(chan struct{}, cfg.MaxConcurrentFixes),
	}
}

// Start spawns the fix workers
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("autofix pipeline is already running")
	}
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	p.running = true

	for i := 0; i < p.cfg.MaxConcurrentFixes; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return nil
}

// Abort drains the queue and cancels running fix attempts
func (p *Pipeline) Abort() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.queue = nil
	p.inflight = make(map[string]struct{})
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

// Submit classifies one observed error text and queues it for fixing.
// Manual-strategy errors go straight to the unfixable handler; hashes seen
// recently or already in flight are dropped. The returned classification is
// the verdict for this text whether or not a fix was queued.
func (p *Pipeline) Submit(ctx context.Context, ownerID, errText string) *apperror.ClassifiedError {
	cerr := p.classifier.Classify(errText)

	p.mu.Lock()
	p.submitted++

	if !cerr.Fixable {
		p.unfixable++
		p.mu.Unlock()
		p.logger.WithFields(map[string]interface{}{
			"owner_id": ownerID,
			"kind":     string(cerr.Kind),
		}).Warn("Error has no automated fix strategy")
		p.notifyUnfixable(ctx, ownerID, cerr)
		return cerr
	}

	p.pruneRecentLocked(time.Now())
	if _, dup := p.inflight[cerr.Hash]; dup {
		p.deduplicated++
		p.mu.Unlock()
		return cerr
	}
	if _, fixed := p.recent[cerr.Hash]; fixed {
		p.deduplicated++
		p.mu.Unlock()
		return cerr
	}

	p.seq++
	p.inflight[cerr.Hash] = struct{}{}
	heap.Push(&p.queue, &task{ownerID: ownerID, cerr: cerr, seq: p.seq})
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}

	return cerr
}

// Stats returns a snapshot of the pipeline counters
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Queued:       len(p.queue),
		InFlight:     len(p.inflight) - len(p.queue),
		Submitted:    p.submitted,
		Deduplicated: p.deduplicated,
		Fixed:        p.fixed,
		Exhausted:    p.exhausted,
		Unfixable:    p.unfixable,
	}
}

// pruneRecentLocked drops dedup entries past their TTL. Caller holds p.mu.
func (p *Pipeline) pruneRecentLocked(now time.Time) {
	for hash, at := range p.recent {
		if now.Sub(at) > p.cfg.DedupTTL {
			delete(p.recent, hash)
		}
	}
}

func (p *Pipeline) pop() *task {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil
	}
	return heap.Pop(&p.queue).(*task)
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	for {
		t := p.pop()
		if t == nil {
			select {
			case <-p.ctx.Done():
				return
			case <-p.wake:
				continue
			}
		}
		p.fix(t)
	}
}

// fix drives up to MaxRetries attempts with exponential backoff between them
func (p *Pipeline) fix(t *task) {
	defer func() {
		p.mu.Lock()
		delete(p.inflight, t.cerr.Hash)
		p.mu.Unlock()
	}()

	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		if p.ctx.Err() != nil {
			return
		}

		err := p.fixer.Fix(p.ctx, t.ownerID, t.cerr)
		if err == nil {
			p.mu.Lock()
			p.fixed++
			p.recent[t.cerr.Hash] = time.Now()
			p.mu.Unlock()

			p.logger.WithFields(map[string]interface{}{
				"owner_id": t.ownerID,
				"kind":     string(t.cerr.Kind),
				"strategy": string(t.cerr.Strategy),
				"attempt":  attempt,
			}).Info("Sandbox error fixed")
			return
		}

		p.logger.WithFields(map[string]interface{}{
			"owner_id": t.ownerID,
			"kind":     string(t.cerr.Kind),
			"attempt":  attempt,
			"error":    err.Error(),
		}).Warn("Fix attempt failed")

		if attempt < p.cfg.MaxRetries {
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(domain.RetryDelayExponential(p.cfg.BackoffBase, attempt)):
			}
		}
	}

	p.mu.Lock()
	p.exhausted++
	p.mu.Unlock()
	p.notifyUnfixable(p.ctx, t.ownerID, t.cerr)
}

func (p *Pipeline) notifyUnfixable(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError) {
	if p.onUnfixable == nil {
		return
	}
	p.onUnfixable(ctx, ownerID, cerr)
}

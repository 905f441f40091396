package autofix

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/pkg/apperror"
	"github.com/hookforge/hookforge/pkg/logger"
)

type fixerFunc func(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError) error

func (f fixerFunc) Fix(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError) error {
	return f(ctx, ownerID, cerr)
}

func testLogger() logger.Logger {
	return logger.NewLoggerWithLevel("disabled")
}

func fastConfig() Config {
	return Config{
		MaxConcurrentFixes: 2,
		MaxRetries:         3,
		BackoffBase:        time.Millisecond,
		DedupTTL:           time.Minute,
	}
}

func TestPipeline_SubmitUnfixableGoesStraightToHandler(t *testing.T) {
	var (
		mu       sync.Mutex
		surfaced []*apperror.ClassifiedError
	)
	p := NewPipeline(
		fixerFunc(func(context.Context, string, *apperror.ClassifiedError) error {
			t.Fatal("fixer must not run for unfixable errors")
			return nil
		}),
		func(_ context.Context, ownerID string, cerr *apperror.ClassifiedError) {
			mu.Lock()
			surfaced = append(surfaced, cerr)
			mu.Unlock()
			assert.Equal(t, "user_1", ownerID)
		},
		testLogger(), fastConfig())

	cerr := p.Submit(context.Background(), "user_1", "NetworkError: Failed to fetch")
	require.NotNil(t, cerr)
	assert.Equal(t, apperror.KindNetwork, cerr.Kind)
	assert.False(t, cerr.Fixable)

	mu.Lock()
	require.Len(t, surfaced, 1)
	mu.Unlock()

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Submitted)
	assert.Equal(t, int64(1), stats.Unfixable)
	assert.Equal(t, 0, stats.Queued)
}

func TestPipeline_FixSuccess(t *testing.T) {
	fixed := make(chan string, 1)
	p := NewPipeline(
		fixerFunc(func(_ context.Context, ownerID string, cerr *apperror.ClassifiedError) error {
			fixed <- cerr.Original
			return nil
		}),
		nil, testLogger(), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Abort()

	errText := "Error: Cannot find module 'react-dom'"
	cerr := p.Submit(context.Background(), "user_1", errText)
	assert.Equal(t, apperror.KindImport, cerr.Kind)
	assert.True(t, cerr.Fixable)

	select {
	case got := <-fixed:
		assert.Equal(t, errText, got)
	case <-time.After(2 * time.Second):
		t.Fatal("fixer was never invoked")
	}

	require.Eventually(t, func() bool {
		return p.Stats().Fixed == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPipeline_RetriesThenSurfacesExhausted(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts int
	)
	exhausted := make(chan *apperror.ClassifiedError, 1)

	cfg := fastConfig()
	cfg.MaxRetries = 3
	p := NewPipeline(
		fixerFunc(func(context.Context, string, *apperror.ClassifiedError) error {
			mu.Lock()
			attempts++
			mu.Unlock()
			return fmt.Errorf("patch did not apply")
		}),
		func(_ context.Context, _ string, cerr *apperror.ClassifiedError) {
			exhausted <- cerr
		},
		testLogger(), cfg)

	require.NoError(t, p.Start(context.Background()))
	defer p.Abort()

	p.Submit(context.Background(), "user_1", "SyntaxError: Unexpected token '}'")

	select {
	case cerr := <-exhausted:
		assert.Equal(t, apperror.KindSyntax, cerr.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("exhausted error never surfaced")
	}

	mu.Lock()
	assert.Equal(t, 3, attempts)
	mu.Unlock()

	require.Eventually(t, func() bool {
		return p.Stats().Exhausted == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPipeline_DedupInFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	p := NewPipeline(
		fixerFunc(func(ctx context.Context, _ string, _ *apperror.ClassifiedError) error {
			started <- struct{}{}
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		nil, testLogger(), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Abort()

	errText := "Error: Cannot find module 'lodash'"
	p.Submit(context.Background(), "user_1", errText)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first fix never started")
	}

	// Same hash while the first attempt is in flight
	p.Submit(context.Background(), "user_1", errText)
	assert.Equal(t, int64(1), p.Stats().Deduplicated)

	close(release)
	require.Eventually(t, func() bool {
		return p.Stats().Fixed == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPipeline_DedupRecentlyFixed(t *testing.T) {
	p := NewPipeline(
		fixerFunc(func(context.Context, string, *apperror.ClassifiedError) error {
			return nil
		}),
		nil, testLogger(), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Abort()

	errText := "Error: Cannot find module 'zustand'"
	p.Submit(context.Background(), "user_1", errText)

	require.Eventually(t, func() bool {
		return p.Stats().Fixed == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The hash sits in the dedup set for the TTL
	p.Submit(context.Background(), "user_1", errText)
	assert.Equal(t, int64(1), p.Stats().Deduplicated)
}

func TestPipeline_PriorityOrdering(t *testing.T) {
	p := NewPipeline(
		fixerFunc(func(context.Context, string, *apperror.ClassifiedError) error {
			return nil
		}),
		nil, testLogger(), fastConfig())

	// Queue without workers: submissions pile up in priority order
	p.Submit(context.Background(), "user_1", "Unknown utility class 'text-brand'") // styling, low
	p.Submit(context.Background(), "user_1", "Error: Cannot find module 'react'")  // import, medium
	p.Submit(context.Background(), "user_1", "Maximum update depth exceeded")      // infinite-loop, critical
	p.Submit(context.Background(), "user_1", "Error: Cannot find module 'axios'")  // import, medium, later arrival

	assert.Equal(t, 4, p.Stats().Queued)

	var kinds []apperror.ErrorKind
	var texts []string
	for {
		task := p.pop()
		if task == nil {
			break
		}
		kinds = append(kinds, task.cerr.Kind)
		texts = append(texts, task.cerr.Original)
	}

	require.Len(t, kinds, 4)
	assert.Equal(t, apperror.KindInfiniteLoop, kinds[0])
	assert.Equal(t, apperror.KindImport, kinds[1])
	assert.Equal(t, apperror.KindImport, kinds[2])
	assert.Equal(t, apperror.KindStyling, kinds[3])
	// Equal priority falls back to arrival order
	assert.Equal(t, "Error: Cannot find module 'react'", texts[1])
	assert.Equal(t, "Error: Cannot find module 'axios'", texts[2])
}

func TestPipeline_AbortDrainsQueueAndStopsWorkers(t *testing.T) {
	started := make(chan struct{}, 1)
	cfg := fastConfig()
	cfg.MaxConcurrentFixes = 1
	p := NewPipeline(
		fixerFunc(func(ctx context.Context, _ string, _ *apperror.ClassifiedError) error {
			started <- struct{}{}
			<-ctx.Done()
			return ctx.Err()
		}),
		nil, testLogger(), cfg)

	require.NoError(t, p.Start(context.Background()))

	p.Submit(context.Background(), "user_1", "Error: Cannot find module 'react'")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("fix never started")
	}

	// These wait behind the single blocked worker
	p.Submit(context.Background(), "user_1", "SyntaxError: Unexpected end of input")
	p.Submit(context.Background(), "user_1", "Maximum call stack size exceeded")

	p.Abort()

	stats := p.Stats()
	assert.Equal(t, 0, stats.Queued)
	assert.Equal(t, int64(0), stats.Fixed)

	// Second abort is a no-op
	p.Abort()
}

func TestPipeline_StartTwiceRefused(t *testing.T) {
	p := NewPipeline(
		fixerFunc(func(context.Context, string, *apperror.ClassifiedError) error {
			return nil
		}),
		nil, testLogger(), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Abort()

	assert.Error(t, p.Start(context.Background()))
}

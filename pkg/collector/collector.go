package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/probe"
	"github.com/frostleo/atlas/pkg/report"
)

// ErrNothingCollected is returned when every requested domain failed.
// A partially degraded snapshot is still a success; this error marks
// total failure only.
var ErrNothingCollected = errors.New(errors.ErrCodeUnavailable, "all requested domains failed to collect")

// Collector orchestrates domain probes into snapshots. Probes run in
// parallel; a failing domain is logged and left absent rather than
// failing the snapshot.
type Collector struct {
	factory probe.Factory

	mu        sync.Mutex
	lastStamp float64
	now       func() time.Time
}

// Option adjusts a Collector.
type Option func(*Collector)

// WithFactory replaces the probe factory.
// This enables dependency injection for testing.
func WithFactory(f probe.Factory) Option {
	return func(c *Collector) {
		if f != nil {
			c.factory = f
		}
	}
}

// New creates a collector with production probes.
func New(opts ...Option) *Collector {
	c := &Collector{
		factory: probe.NewDefaultFactory(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultOnce sync.Once
	defaultInst *Collector
)

// Default returns the process-wide collector. All callers share one
// instance, so cached facts and probe rate limits hold across the
// whole process.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultInst = New()
	})
	return defaultInst
}

// CollectAll collects every domain.
func (c *Collector) CollectAll(ctx context.Context) (*report.Snapshot, error) {
	return c.Collect(ctx, report.AllDomains())
}

// Collect gathers the selected domains into a snapshot. Domains that
// fail are absent from the result; the snapshot errors only when the
// context is canceled or every requested domain failed. An empty
// selection yields a valid snapshot holding nothing but its timestamp.
func (c *Collector) Collect(ctx context.Context, sel report.Selection) (*report.Snapshot, error) {
	start := time.Now()
	defer func() {
		collectionDuration.Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		collectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap := &report.Snapshot{Timestamp: c.stamp()}
	if !sel.Any() {
		collectionTotal.WithLabelValues("success").Inc()
		snapshotDomainCount.Set(0)
		return snap, nil
	}

	slog.Debug("starting snapshot collection", "domains", sel.Count())

	var mu sync.Mutex
	var failed int
	g, gctx := errgroup.WithContext(ctx)

	// Each domain degrades on its own failure; only cancellation
	// propagates through the group.
	run := func(domain report.Domain, fn func(context.Context) error) {
		g.Go(func() error {
			probeStart := time.Now()
			defer func() {
				probeDuration.WithLabelValues(string(domain)).Observe(time.Since(probeStart).Seconds())
			}()
			if err := fn(gctx); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("domain collection failed", "domain", string(domain), "error", err)
				probeFailureTotal.WithLabelValues(string(domain)).Inc()
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}

	if sel.Platform {
		run(report.DomainPlatform, func(ctx context.Context) error {
			info, err := c.factory.CreatePlatformProbe().Collect(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Platform = info
			mu.Unlock()
			return nil
		})
	}
	if sel.CPU {
		run(report.DomainCPU, func(ctx context.Context) error {
			info, err := c.factory.CreateCPUProbe().Collect(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.CPU = info
			mu.Unlock()
			return nil
		})
	}
	if sel.Memory {
		run(report.DomainMemory, func(ctx context.Context) error {
			info, err := c.factory.CreateMemoryProbe().Collect(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Memory = info
			mu.Unlock()
			return nil
		})
	}
	if sel.Disk {
		run(report.DomainDisk, func(ctx context.Context) error {
			info, err := c.factory.CreateDiskProbe().Collect(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Disk = info
			mu.Unlock()
			return nil
		})
	}
	if sel.Network {
		run(report.DomainNetwork, func(ctx context.Context) error {
			info, err := c.factory.CreateNetworkProbe().Collect(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Network = info
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		collectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if failed == sel.Count() {
		collectionTotal.WithLabelValues("error").Inc()
		return nil, ErrNothingCollected
	}

	present := 0
	for _, d := range report.Domains {
		if snap.Present(d) {
			present++
		}
	}
	collectionTotal.WithLabelValues("success").Inc()
	snapshotDomainCount.Set(float64(present))

	slog.Debug("snapshot collection complete",
		"present", present, "degraded", failed)

	return snap, nil
}

// stamp issues a strictly increasing collection timestamp in epoch
// seconds, even when the clock stalls or steps backwards between calls.
func (c *Collector) stamp() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := float64(c.now().UnixNano()) / float64(time.Second)
	if ts <= c.lastStamp {
		ts = c.lastStamp + 1e-6
	}
	c.lastStamp = ts
	return ts
}

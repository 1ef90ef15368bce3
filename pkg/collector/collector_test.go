package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostleo/atlas/pkg/probe"
	"github.com/frostleo/atlas/pkg/report"
)

// fakeFactory builds deterministic probes. A domain with an entry in
// errs fails with that error; a domain in block waits for cancellation.
type fakeFactory struct {
	errs  map[report.Domain]error
	block map[report.Domain]bool
}

func (f *fakeFactory) stub(d report.Domain) stubProbe {
	return stubProbe{err: f.errs[d], block: f.block[d]}
}

func (f *fakeFactory) CreatePlatformProbe() probe.PlatformProber {
	return platformStub{f.stub(report.DomainPlatform)}
}
func (f *fakeFactory) CreateCPUProbe() probe.CPUProber { return cpuStub{f.stub(report.DomainCPU)} }
func (f *fakeFactory) CreateMemoryProbe() probe.MemoryProber {
	return memoryStub{f.stub(report.DomainMemory)}
}
func (f *fakeFactory) CreateDiskProbe() probe.DiskProber { return diskStub{f.stub(report.DomainDisk)} }
func (f *fakeFactory) CreateNetworkProbe() probe.NetworkProber {
	return networkStub{f.stub(report.DomainNetwork)}
}

type stubProbe struct {
	err   error
	block bool
}

func (s stubProbe) wait(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

type platformStub struct{ stubProbe }

func (s platformStub) Collect(ctx context.Context) (*report.PlatformInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &report.PlatformInfo{Hostname: "test-host", OSName: "linux"}, nil
}

type cpuStub struct{ stubProbe }

func (s cpuStub) Collect(ctx context.Context) (*report.CPUInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &report.CPUInfo{Brand: "Test CPU", LogicalCores: 8}, nil
}

type memoryStub struct{ stubProbe }

func (s memoryStub) Collect(ctx context.Context) (*report.MemoryInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &report.MemoryInfo{Total: 16 << 30, Used: 8 << 30, UsedPercent: 50}, nil
}

type diskStub struct{ stubProbe }

func (s diskStub) Collect(ctx context.Context) (*report.DiskInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &report.DiskInfo{TotalBytes: 512 << 30}, nil
}

type networkStub struct{ stubProbe }

func (s networkStub) Collect(ctx context.Context) (*report.NetworkInfo, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &report.NetworkInfo{Interfaces: []report.Interface{{Name: "eth0", Up: true}}}, nil
}

func newTestCollector(f *fakeFactory) *Collector {
	return New(WithFactory(f))
}

func TestCollectAllDomains(t *testing.T) {
	c := newTestCollector(&fakeFactory{})

	snap, err := c.CollectAll(context.TODO())

	require.NoError(t, err)
	require.NotNil(t, snap)
	for _, d := range report.Domains {
		assert.True(t, snap.Present(d), "domain %s should be present", d)
	}
	assert.Greater(t, snap.Timestamp, 0.0)
	assert.NoError(t, snap.Validate())
}

func TestCollectSelectionMask(t *testing.T) {
	c := newTestCollector(&fakeFactory{})

	// Exercise every subset of the five domains.
	for mask := 0; mask < 1<<len(report.Domains); mask++ {
		sel := report.NoDomains()
		for i, d := range report.Domains {
			if mask&(1<<i) == 0 {
				continue
			}
			switch d {
			case report.DomainPlatform:
				sel.Platform = true
			case report.DomainCPU:
				sel.CPU = true
			case report.DomainMemory:
				sel.Memory = true
			case report.DomainDisk:
				sel.Disk = true
			case report.DomainNetwork:
				sel.Network = true
			}
		}

		snap, err := c.Collect(context.TODO(), sel)
		require.NoError(t, err, "mask %05b", mask)
		require.NotNil(t, snap)
		for _, d := range report.Domains {
			assert.Equal(t, sel.Enabled(d), snap.Present(d),
				"mask %05b domain %s", mask, d)
		}
	}
}

func TestCollectFailureIsolation(t *testing.T) {
	c := newTestCollector(&fakeFactory{
		errs: map[report.Domain]error{
			report.DomainCPU: errors.New("cpuinfo unreadable"),
		},
	})

	snap, err := c.CollectAll(context.TODO())

	require.NoError(t, err, "one failed domain should not fail the snapshot")
	assert.Nil(t, snap.CPU)
	assert.NotNil(t, snap.Platform)
	assert.NotNil(t, snap.Memory)
	assert.NotNil(t, snap.Disk)
	assert.NotNil(t, snap.Network)
}

func TestCollectTotalFailure(t *testing.T) {
	boom := errors.New("boom")
	c := newTestCollector(&fakeFactory{
		errs: map[report.Domain]error{
			report.DomainCPU:    boom,
			report.DomainMemory: boom,
		},
	})

	sel := report.NoDomains()
	sel.CPU = true
	sel.Memory = true

	snap, err := c.Collect(context.TODO(), sel)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingCollected)
	assert.Nil(t, snap)
}

func TestCollectEmptySelection(t *testing.T) {
	c := newTestCollector(&fakeFactory{})

	snap, err := c.Collect(context.TODO(), report.NoDomains())

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Greater(t, snap.Timestamp, 0.0)
	for _, d := range report.Domains {
		assert.False(t, snap.Present(d))
	}
}

func TestCollectCanceledContext(t *testing.T) {
	c := newTestCollector(&fakeFactory{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := c.CollectAll(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, snap, "no partial snapshot on cancellation")
}

func TestCollectDeadlineDuringProbe(t *testing.T) {
	c := newTestCollector(&fakeFactory{
		block: map[report.Domain]bool{report.DomainDisk: true},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	snap, err := c.CollectAll(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, snap)
}

func TestTimestampsStrictlyIncrease(t *testing.T) {
	c := newTestCollector(&fakeFactory{})
	// Freeze the clock; monotonicity must come from the collector.
	frozen := time.Now()
	c.now = func() time.Time { return frozen }

	var last float64
	for i := 0; i < 10; i++ {
		snap, err := c.Collect(context.TODO(), report.NoDomains())
		require.NoError(t, err)
		assert.Greater(t, snap.Timestamp, last, "iteration %d", i)
		last = snap.Timestamp
	}
}

func TestDefaultSingleton(t *testing.T) {
	const goroutines = 16

	instances := make([]*Collector, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			instances[i] = Default()
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, instances[0], instances[i])
	}
}

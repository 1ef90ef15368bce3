package probe

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/frostleo/atlas/pkg/facts"
)

// Factory creates probes with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreatePlatformProbe() PlatformProber
	CreateCPUProbe() CPUProber
	CreateMemoryProbe() MemoryProber
	CreateDiskProbe() DiskProber
	CreateNetworkProbe() NetworkProber
}

// NetworkOptions tune the optional active portions of the network probe.
// Enumeration of interfaces and counters always happens; the speed test
// and external address lookup run only when asked for.
type NetworkOptions struct {
	SpeedTest        bool
	PublicIPLookup   bool
	PingTarget       string // empty selects a locale-appropriate default
	PingCount        int
	SpeedTestTimeout time.Duration
}

// DefaultFactory creates probes with production dependencies. All probes
// built by one factory share a fact cache and one speed-test rate
// limiter, so expensive facts are read once per process and repeated
// collections cannot fire more than one active probe per window.
type DefaultFactory struct {
	Cache           *facts.Cache
	CPUSampleWindow time.Duration
	Network         NetworkOptions

	limiter *rate.Limiter
}

// Option adjusts a DefaultFactory.
type Option func(*DefaultFactory)

// WithNetworkOptions sets the active network probing behavior.
func WithNetworkOptions(opts NetworkOptions) Option {
	return func(f *DefaultFactory) {
		f.Network = opts
	}
}

// WithCPUSampleWindow overrides the utilization sampling window.
func WithCPUSampleWindow(d time.Duration) Option {
	return func(f *DefaultFactory) {
		if d > 0 {
			f.CPUSampleWindow = d
		}
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		Cache:           facts.New(),
		CPUSampleWindow: 120 * time.Millisecond,
		Network: NetworkOptions{
			PingCount:        3,
			SpeedTestTimeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(speedTestTTL), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreatePlatformProbe creates a platform probe.
func (f *DefaultFactory) CreatePlatformProbe() PlatformProber {
	return &PlatformProbe{cache: f.Cache}
}

// CreateCPUProbe creates a CPU probe.
func (f *DefaultFactory) CreateCPUProbe() CPUProber {
	return &CPUProbe{
		cache:        f.Cache,
		sampleWindow: f.CPUSampleWindow,
	}
}

// CreateMemoryProbe creates a memory probe.
func (f *DefaultFactory) CreateMemoryProbe() MemoryProber {
	return &MemoryProbe{}
}

// CreateDiskProbe creates a disk probe.
func (f *DefaultFactory) CreateDiskProbe() DiskProber {
	return &DiskProbe{cache: f.Cache}
}

// CreateNetworkProbe creates a network probe.
func (f *DefaultFactory) CreateNetworkProbe() NetworkProber {
	p := &NetworkProbe{
		cache:   f.Cache,
		opts:    f.Network,
		limiter: f.limiter,
	}
	if p.opts.PingCount <= 0 {
		p.opts.PingCount = 3
	}
	if p.opts.SpeedTestTimeout <= 0 {
		p.opts.SpeedTestTimeout = 5 * time.Second
	}
	return p
}

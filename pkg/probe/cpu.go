package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
)

// cacheSizes holds per-level cache capacities in bytes. Any level may
// be nil when the platform does not expose it.
type cacheSizes struct {
	l1, l2, l3 *uint64
}

// freqRange holds the advertised frequency envelope in MHz.
type freqRange struct {
	min, max *float64
}

// cpuIdentity is the static portion of a CPU reading. It cannot change
// while the process runs, so it is computed once and cached forever.
type cpuIdentity struct {
	brand         string
	vendor        string
	family        string
	model         string
	stepping      *int32
	physicalCores int
	logicalCores  int
	currentMHz    *float64
	minMHz        *float64
	maxMHz        *float64
	caches        cacheSizes
	flags         []string
}

// CPUProbe reads processor identity and a sampled utilization figure.
// Identity is cached for the process lifetime; utilization is measured
// fresh on every collection over sampleWindow.
type CPUProbe struct {
	cache        *facts.Cache
	sampleWindow time.Duration
}

// Collect gathers CPU identity and current utilization.
func (p *CPUProbe) Collect(ctx context.Context) (*report.CPUInfo, error) {
	ident, err := facts.Get(p.cache, keyCPUIdentity, facts.TTLNever, func() (cpuIdentity, error) {
		return readCPUIdentity(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := &report.CPUInfo{
		Brand:          ident.brand,
		Vendor:         ident.vendor,
		Family:         ident.family,
		Model:          ident.model,
		Stepping:       ident.stepping,
		PhysicalCores:  ident.physicalCores,
		LogicalCores:   ident.logicalCores,
		CurrentFreqMHz: ident.currentMHz,
		MinFreqMHz:     ident.minMHz,
		MaxFreqMHz:     ident.maxMHz,
		CacheL1Bytes:   ident.caches.l1,
		CacheL2Bytes:   ident.caches.l2,
		CacheL3Bytes:   ident.caches.l3,
		Flags:          ident.flags,
	}

	// Aggregate utilization over a short window. A blocked or failed
	// sample degrades to a zero reading rather than sinking identity.
	percents, perr := cpu.PercentWithContext(ctx, p.sampleWindow, false)
	if perr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("cpu utilization sample failed", "error", perr)
	} else if len(percents) > 0 {
		out.UsagePercent = percents[0]
	}

	return out, nil
}

func readCPUIdentity(ctx context.Context) (cpuIdentity, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return cpuIdentity{}, errors.Wrap(errors.ErrCodeUnavailable, "failed to read CPU information", err)
	}
	if len(infos) == 0 {
		return cpuIdentity{}, errors.New(errors.ErrCodeUnavailable, "no CPU entries reported")
	}

	first := infos[0]
	ident := cpuIdentity{
		brand:  first.ModelName,
		vendor: first.VendorID,
		family: first.Family,
		model:  first.Model,
		flags:  first.Flags,
	}
	if first.Stepping >= 0 {
		stepping := first.Stepping
		ident.stepping = &stepping
	}
	if first.Mhz > 0 {
		mhz := first.Mhz
		ident.currentMHz = &mhz
	}

	if physical, cerr := cpu.CountsWithContext(ctx, false); cerr == nil {
		ident.physicalCores = physical
	}
	if logical, cerr := cpu.CountsWithContext(ctx, true); cerr == nil {
		ident.logicalCores = logical
	}

	ident.caches = readCacheSizes()
	if ident.caches.l2 == nil && first.CacheSize > 0 {
		l2 := uint64(first.CacheSize) * 1024
		ident.caches.l2 = &l2
	}

	fr := readFreqRange()
	ident.minMHz = fr.min
	ident.maxMHz = fr.max

	return ident, nil
}

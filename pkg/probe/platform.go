package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
	"github.com/frostleo/atlas/pkg/version"
)

// PlatformProbe reads OS identity, machine identity, and coarse
// hardware specs. The machine identifier is cached for the process
// lifetime; everything else is read fresh.
type PlatformProbe struct {
	cache *facts.Cache
}

// Collect gathers platform identification.
func (p *PlatformProbe) Collect(ctx context.Context) (*report.PlatformInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to read host information", err)
	}

	out := &report.PlatformInfo{
		Hostname:      info.Hostname,
		OSName:        info.OS,
		OSVersion:     info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Platform:      fmt.Sprintf("%s-%s-%s", info.Platform, info.PlatformVersion, info.KernelArch),
		Architecture:  info.KernelArch,
		BootTime:      float64(info.BootTime),
		UptimeSeconds: float64(info.Uptime),
	}

	// OS release strings are frequently non-semver ("14.4.1", "22.04",
	// "6.8.0-51-generic"); the lenient parser keeps what it can.
	if v, perr := version.Parse(info.PlatformVersion); perr == nil {
		out.OSRelease = &v
	}

	if id, merr := facts.Get(p.cache, keyMachineID, facts.TTLNever, func() (string, error) {
		return machineID(ctx)
	}); merr == nil && id != "" {
		out.MachineID = &id
	} else if merr != nil {
		slog.Debug("machine identifier unavailable", "error", merr)
	}

	// Coarse capacity figures round out the identity record. Either
	// reading may fail without sinking the probe.
	if logical, cerr := cpu.CountsWithContext(ctx, true); cerr == nil {
		out.LogicalCPUs = logical
	}
	if vm, verr := mem.VirtualMemoryWithContext(ctx); verr == nil {
		out.TotalMemory = vm.Total
	}

	return out, nil
}

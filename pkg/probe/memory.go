package probe

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/report"
)

// MemoryProbe reads RAM and swap usage. Memory numbers go stale in
// milliseconds, so nothing here is cached.
type MemoryProbe struct{}

// Collect gathers virtual memory and swap usage.
func (p *MemoryProbe) Collect(ctx context.Context) (*report.MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to read virtual memory", err)
	}

	out := &report.MemoryInfo{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		Free:        vm.Free,
		UsedPercent: vm.UsedPercent,
	}
	if vm.Buffers > 0 {
		buffers := vm.Buffers
		out.Buffers = &buffers
	}
	if vm.Cached > 0 {
		cached := vm.Cached
		out.Cached = &cached
	}
	if vm.Shared > 0 {
		shared := vm.Shared
		out.Shared = &shared
	}

	// Swap can be disabled or unreadable; the RAM reading stands alone.
	swap, serr := mem.SwapMemoryWithContext(ctx)
	if serr != nil {
		slog.Debug("swap reading failed", "error", serr)
		return out, nil
	}
	out.SwapTotal = swap.Total
	out.SwapUsed = swap.Used
	out.SwapFree = swap.Free
	out.SwapPercent = swap.UsedPercent

	return out, nil
}

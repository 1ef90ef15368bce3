package probe

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/frostleo/atlas/pkg/errors"
	"github.com/frostleo/atlas/pkg/facts"
	"github.com/frostleo/atlas/pkg/report"
)

// DiskProbe enumerates mounted filesystems with usage and I/O counters.
// Statfs against many mounts is the slowest passive reading, so the
// whole record is cached briefly.
type DiskProbe struct {
	cache *facts.Cache
}

// Collect gathers partition, usage, and I/O information.
func (p *DiskProbe) Collect(ctx context.Context) (*report.DiskInfo, error) {
	return facts.Get(p.cache, keyDiskInfo, diskInfoTTL, func() (*report.DiskInfo, error) {
		return readDiskInfo(ctx)
	})
}

func readDiskInfo(ctx context.Context) (*report.DiskInfo, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to enumerate partitions", err)
	}

	out := &report.DiskInfo{
		Partitions: make([]report.Partition, 0, len(parts)),
	}
	for _, part := range parts {
		entry := report.Partition{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			Fstype:     part.Fstype,
		}
		// A dead mount (stale NFS, unplugged media) keeps its identity
		// row; only the usage columns go missing.
		usage, uerr := disk.UsageWithContext(ctx, part.Mountpoint)
		if uerr != nil {
			slog.Debug("partition usage unavailable", "mountpoint", part.Mountpoint, "error", uerr)
		} else {
			total, used, free, pct := usage.Total, usage.Used, usage.Free, usage.UsedPercent
			entry.Total = &total
			entry.Used = &used
			entry.Free = &free
			entry.UsedPercent = &pct
		}
		out.Partitions = append(out.Partitions, entry)
	}

	aggregatePartitions(out)

	if counters, cerr := disk.IOCountersWithContext(ctx); cerr == nil && len(counters) > 0 {
		out.IO = sumIOCounters(counters)
	}

	return out, nil
}

// aggregatePartitions fills the totals from partitions that reported
// usage. The average weighs each partition equally regardless of size.
func aggregatePartitions(info *report.DiskInfo) {
	var pctSum float64
	var counted int
	for i := range info.Partitions {
		p := &info.Partitions[i]
		if p.Total == nil {
			continue
		}
		info.TotalBytes += *p.Total
		info.UsedBytes += *p.Used
		info.FreeBytes += *p.Free
		pctSum += *p.UsedPercent
		counted++
	}
	if counted > 0 {
		avg := pctSum / float64(counted)
		info.AverageUsedPercent = &avg
	}
}

func sumIOCounters(counters map[string]disk.IOCountersStat) *report.DiskIO {
	var io report.DiskIO
	for _, c := range counters {
		io.ReadCount += c.ReadCount
		io.WriteCount += c.WriteCount
		io.ReadBytes += c.ReadBytes
		io.WriteBytes += c.WriteBytes
		io.ReadTimeMs += c.ReadTime
		io.WriteTimeMs += c.WriteTime
	}
	return &io
}

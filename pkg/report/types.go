// Copyright (c) 2025, Atlas Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"

	"github.com/frostleo/atlas/pkg/version"
)

// Domain identifies one of the collectable information domains.
type Domain string

// String returns the string representation of the Domain.
func (d Domain) String() string {
	return string(d)
}

const (
	DomainPlatform Domain = "platform"
	DomainCPU      Domain = "cpu"
	DomainMemory   Domain = "memory"
	DomainDisk     Domain = "disk"
	DomainNetwork  Domain = "network"
)

// Domains is the list of all collectable domains in snapshot field order.
var Domains = []Domain{
	DomainPlatform,
	DomainCPU,
	DomainMemory,
	DomainDisk,
	DomainNetwork,
}

// ParseDomain parses a string into a Domain.
// Returns the Domain and true if the string names a known domain.
func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Selection chooses which domains a single collection call gathers.
// It is a plain value: callers construct it per call and it never
// mutates shared state.
type Selection struct {
	Platform bool
	CPU      bool
	Memory   bool
	Disk     bool
	Network  bool
}

// AllDomains returns a Selection with every domain enabled.
// This is the default for collection calls that pass no selection.
func AllDomains() Selection {
	return Selection{
		Platform: true,
		CPU:      true,
		Memory:   true,
		Disk:     true,
		Network:  true,
	}
}

// NoDomains returns a Selection with every domain disabled.
func NoDomains() Selection {
	return Selection{}
}

// Enabled reports whether the given domain is requested by the selection.
func (s Selection) Enabled(d Domain) bool {
	switch d {
	case DomainPlatform:
		return s.Platform
	case DomainCPU:
		return s.CPU
	case DomainMemory:
		return s.Memory
	case DomainDisk:
		return s.Disk
	case DomainNetwork:
		return s.Network
	default:
		return false
	}
}

// Any reports whether at least one domain is requested.
func (s Selection) Any() bool {
	return s.Platform || s.CPU || s.Memory || s.Disk || s.Network
}

// Count returns the number of requested domains.
func (s Selection) Count() int {
	n := 0
	for _, d := range Domains {
		if s.Enabled(d) {
			n++
		}
	}
	return n
}

// Snapshot is the aggregate result of one collection call.
// A domain field is nil when the domain was not selected or its probe
// failed; callers must branch on presence before reading nested data.
// Once constructed a Snapshot is immutable and safe to share across
// goroutines without copying.
type Snapshot struct {
	// Timestamp is the capture time in seconds since the Unix epoch.
	Timestamp float64 `json:"timestamp" yaml:"timestamp"`

	Platform *PlatformInfo `json:"platform,omitempty" yaml:"platform,omitempty"`
	CPU      *CPUInfo      `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory   *MemoryInfo   `json:"memory,omitempty" yaml:"memory,omitempty"`
	Disk     *DiskInfo     `json:"disk,omitempty" yaml:"disk,omitempty"`
	Network  *NetworkInfo  `json:"network,omitempty" yaml:"network,omitempty"`
}

// Present reports whether the given domain produced data in this snapshot.
func (s *Snapshot) Present(d Domain) bool {
	switch d {
	case DomainPlatform:
		return s.Platform != nil
	case DomainCPU:
		return s.CPU != nil
	case DomainMemory:
		return s.Memory != nil
	case DomainDisk:
		return s.Disk != nil
	case DomainNetwork:
		return s.Network != nil
	default:
		return false
	}
}

// PlatformInfo describes the host operating system and coarse hardware specs.
type PlatformInfo struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	OSName        string `json:"os_name" yaml:"os_name"`
	OSVersion     string `json:"os_version" yaml:"os_version"`
	KernelVersion string `json:"kernel_version,omitempty" yaml:"kernel_version,omitempty"`
	Platform      string `json:"platform" yaml:"platform"`
	Architecture  string `json:"architecture" yaml:"architecture"`

	// OSRelease is the parsed form of OSVersion when it parses cleanly.
	OSRelease *version.Version `json:"os_release,omitempty" yaml:"os_release,omitempty"`

	// MachineID is a stable machine-unique identifier. Its source varies
	// per OS; nil when no strategy produced one.
	MachineID *string `json:"machine_id,omitempty" yaml:"machine_id,omitempty"`

	BootTime      float64 `json:"boot_time" yaml:"boot_time"`
	UptimeSeconds float64 `json:"uptime_seconds" yaml:"uptime_seconds"`
	LogicalCPUs   int     `json:"logical_cpus" yaml:"logical_cpus"`
	TotalMemory   uint64  `json:"total_memory" yaml:"total_memory"`
}

// CPUInfo describes static CPU identity plus a sampled utilization reading.
type CPUInfo struct {
	Brand    string `json:"brand" yaml:"brand"`
	Vendor   string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Family   string `json:"family,omitempty" yaml:"family,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Stepping *int32 `json:"stepping,omitempty" yaml:"stepping,omitempty"`

	PhysicalCores int `json:"physical_cores" yaml:"physical_cores"`
	LogicalCores  int `json:"logical_cores" yaml:"logical_cores"`

	CurrentFreqMHz *float64 `json:"current_freq_mhz,omitempty" yaml:"current_freq_mhz,omitempty"`
	MinFreqMHz     *float64 `json:"min_freq_mhz,omitempty" yaml:"min_freq_mhz,omitempty"`
	MaxFreqMHz     *float64 `json:"max_freq_mhz,omitempty" yaml:"max_freq_mhz,omitempty"`

	// Cache sizes in bytes per level. Platforms that do not expose a
	// level report it as nil, never zero.
	CacheL1Bytes *uint64 `json:"l1_cache_bytes,omitempty" yaml:"l1_cache_bytes,omitempty"`
	CacheL2Bytes *uint64 `json:"l2_cache_bytes,omitempty" yaml:"l2_cache_bytes,omitempty"`
	CacheL3Bytes *uint64 `json:"l3_cache_bytes,omitempty" yaml:"l3_cache_bytes,omitempty"`

	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`

	// UsagePercent is sampled fresh on every call over a short fixed window.
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
}

// MemoryInfo describes RAM and swap usage at a single point in time.
// All byte counts are raw values; percentage derivations beyond the two
// OS-reported percents are the caller's responsibility.
type MemoryInfo struct {
	Total       uint64  `json:"total" yaml:"total"`
	Available   uint64  `json:"available" yaml:"available"`
	Used        uint64  `json:"used" yaml:"used"`
	Free        uint64  `json:"free" yaml:"free"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`

	SwapTotal   uint64  `json:"swap_total" yaml:"swap_total"`
	SwapUsed    uint64  `json:"swap_used" yaml:"swap_used"`
	SwapFree    uint64  `json:"swap_free" yaml:"swap_free"`
	SwapPercent float64 `json:"swap_percent" yaml:"swap_percent"`

	// Linux distinguishes buffer/cache/shared accounting; other platforms
	// report these as nil.
	Buffers *uint64 `json:"buffers,omitempty" yaml:"buffers,omitempty"`
	Cached  *uint64 `json:"cached,omitempty" yaml:"cached,omitempty"`
	Shared  *uint64 `json:"shared,omitempty" yaml:"shared,omitempty"`
}

// Partition describes one mounted filesystem. Identity fields are always
// present when the partition was enumerated; usage fields are nil when the
// usage query failed (e.g. a disconnected network mount).
type Partition struct {
	Device     string `json:"device" yaml:"device"`
	Mountpoint string `json:"mountpoint" yaml:"mountpoint"`
	Fstype     string `json:"fstype" yaml:"fstype"`

	Total       *uint64  `json:"total,omitempty" yaml:"total,omitempty"`
	Used        *uint64  `json:"used,omitempty" yaml:"used,omitempty"`
	Free        *uint64  `json:"free,omitempty" yaml:"free,omitempty"`
	UsedPercent *float64 `json:"used_percent,omitempty" yaml:"used_percent,omitempty"`
}

// DiskIO holds process-wide disk I/O counters accumulated since boot.
type DiskIO struct {
	ReadCount   uint64 `json:"read_count" yaml:"read_count"`
	WriteCount  uint64 `json:"write_count" yaml:"write_count"`
	ReadBytes   uint64 `json:"read_bytes" yaml:"read_bytes"`
	WriteBytes  uint64 `json:"write_bytes" yaml:"write_bytes"`
	ReadTimeMs  uint64 `json:"read_time_ms" yaml:"read_time_ms"`
	WriteTimeMs uint64 `json:"write_time_ms" yaml:"write_time_ms"`
}

// DiskInfo describes mounted partitions and aggregate usage.
type DiskInfo struct {
	// Partitions preserves OS enumeration order.
	Partitions []Partition `json:"partitions" yaml:"partitions"`

	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes  uint64 `json:"used_bytes" yaml:"used_bytes"`
	FreeBytes  uint64 `json:"free_bytes" yaml:"free_bytes"`

	// AverageUsedPercent is the mean of per-partition usage percentages,
	// nil when no partition reported usage.
	AverageUsedPercent *float64 `json:"average_used_percent,omitempty" yaml:"average_used_percent,omitempty"`

	// IO counters are best-effort; nil where the OS does not expose them.
	IO *DiskIO `json:"io,omitempty" yaml:"io,omitempty"`
}

// Interface describes one network interface.
type Interface struct {
	Name      string   `json:"name" yaml:"name"`
	MAC       string   `json:"mac,omitempty" yaml:"mac,omitempty"`
	Addresses []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Up        bool     `json:"up" yaml:"up"`

	// SpeedMbps is the negotiated link speed where the OS exposes it.
	SpeedMbps *int64 `json:"speed_mbps,omitempty" yaml:"speed_mbps,omitempty"`
}

// SpeedTest is the result of the optional active network probe.
type SpeedTest struct {
	Target    string  `json:"target" yaml:"target"`
	LatencyMs float64 `json:"latency_ms" yaml:"latency_ms"`

	// PacketLoss is the echo loss ratio in percent over the probe window.
	PacketLoss float64 `json:"packet_loss" yaml:"packet_loss"`

	// Best-effort throughput observed over the sampling window, nil when
	// no traffic moved during the window.
	DownloadMbps *float64 `json:"download_mbps,omitempty" yaml:"download_mbps,omitempty"`
	UploadMbps   *float64 `json:"upload_mbps,omitempty" yaml:"upload_mbps,omitempty"`
}

// NetworkInfo describes interface configuration and optional active
// probe results.
type NetworkInfo struct {
	Interfaces []Interface `json:"interfaces" yaml:"interfaces"`

	// PrimaryInterface and LocalIP identify the first non-loopback
	// interface that is up and carries an IPv4 address.
	PrimaryInterface *string `json:"primary_interface,omitempty" yaml:"primary_interface,omitempty"`
	LocalIP          *string `json:"local_ip,omitempty" yaml:"local_ip,omitempty"`

	// PublicIP is resolved via external services, best-effort.
	PublicIP *string `json:"public_ip,omitempty" yaml:"public_ip,omitempty"`

	BytesSent uint64 `json:"bytes_sent" yaml:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv" yaml:"bytes_recv"`

	// SpeedTest is present only when the active probe ran and completed
	// within its bound.
	SpeedTest *SpeedTest `json:"speed_test,omitempty" yaml:"speed_test,omitempty"`
}

// Validate checks snapshot-wide invariants: sampled percentages stay in
// sensible ranges and derived numeric fields are never negative.
// Counters and byte totals are unsigned by construction.
func (s *Snapshot) Validate() error {
	if s.Timestamp < 0 {
		return fmt.Errorf("negative timestamp: %f", s.Timestamp)
	}
	if c := s.CPU; c != nil {
		if c.UsagePercent < 0 {
			return fmt.Errorf("negative cpu usage: %f", c.UsagePercent)
		}
		if c.PhysicalCores < 0 || c.LogicalCores < 0 {
			return fmt.Errorf("negative core count")
		}
	}
	if m := s.Memory; m != nil {
		if m.UsedPercent < 0 || m.SwapPercent < 0 {
			return fmt.Errorf("negative memory percent")
		}
	}
	if d := s.Disk; d != nil {
		for i := range d.Partitions {
			p := &d.Partitions[i]
			if p.UsedPercent != nil && *p.UsedPercent < 0 {
				return fmt.Errorf("negative usage percent on %s", p.Mountpoint)
			}
		}
		if d.AverageUsedPercent != nil && *d.AverageUsedPercent < 0 {
			return fmt.Errorf("negative average usage percent")
		}
	}
	if n := s.Network; n != nil && n.SpeedTest != nil {
		if n.SpeedTest.LatencyMs < 0 {
			return fmt.Errorf("negative latency: %f", n.SpeedTest.LatencyMs)
		}
	}
	if p := s.Platform; p != nil {
		if p.UptimeSeconds < 0 || p.BootTime < 0 {
			return fmt.Errorf("negative uptime or boot time")
		}
	}
	return nil
}

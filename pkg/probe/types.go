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

package probe

import (
	"context"
	"time"

	"github.com/frostleo/atlas/pkg/report"
)

// Fact cache keys shared across probes. One name per fact, so per-key
// expiry policies stay explicit.
const (
	keyMachineID   = "platform.machine-id"
	keyCPUIdentity = "cpu.identity"
	keyDiskInfo    = "disk.info"
	keySpeedTest   = "network.speed-test"
)

// Per-fact expiry policies. Static hardware facts never expire; facts
// that drift carry a short bound.
const (
	diskInfoTTL  = 15 * time.Second
	speedTestTTL = 30 * time.Second
)

// PlatformProber collects OS identity and coarse hardware specs.
type PlatformProber interface {
	Collect(ctx context.Context) (*report.PlatformInfo, error)
}

// CPUProber collects static CPU identity plus a sampled utilization reading.
type CPUProber interface {
	Collect(ctx context.Context) (*report.CPUInfo, error)
}

// MemoryProber collects RAM and swap usage.
type MemoryProber interface {
	Collect(ctx context.Context) (*report.MemoryInfo, error)
}

// DiskProber enumerates partitions with usage and I/O counters.
type DiskProber interface {
	Collect(ctx context.Context) (*report.DiskInfo, error)
}

// NetworkProber enumerates interfaces and optionally runs the active
// speed test.
type NetworkProber interface {
	Collect(ctx context.Context) (*report.NetworkInfo, error)
}

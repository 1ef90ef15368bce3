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

// Package report defines the serializable schema of a device snapshot.
//
// A Snapshot holds one optional sub-record per information domain
// (platform, cpu, memory, disk, network) plus a capture timestamp.
// Absence is first class: a nil sub-record means the domain was not
// selected or its probe degraded, which is distinguishable at the type
// level from a present record with zero values. Optional scalar fields
// inside the records use pointers for the same reason; platforms that do
// not expose a fact report nil, never zero.
//
// Selection is the per-call value choosing which domains to collect:
//
//	snap, err := collector.Default().Collect(ctx, report.Selection{
//		Platform: true,
//		Memory:   true,
//	})
//	if snap.Memory != nil {
//		fmt.Println(snap.Memory.Used)
//	}
//
// All types in this package marshal to both JSON and YAML with stable
// field names; consumers should treat field absence as the only schema
// versioning signal.
package report

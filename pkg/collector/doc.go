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

// Package collector runs domain probes in parallel and assembles their
// results into a report.Snapshot.
//
// # Failure Semantics
//
// A domain that cannot be read is absent from the snapshot, not an
// error. Collect returns an error only when the context is canceled or
// when every requested domain failed, in which case the error is
// ErrNothingCollected. Selecting zero domains yields a valid snapshot
// holding nothing but its timestamp.
//
// # Usage
//
// Most programs use the shared instance, which keeps one fact cache and
// one probe rate limit for the whole process:
//
//	snap, err := collector.Default().CollectAll(ctx)
//	if err != nil {
//	    log.Fatalf("collection failed: %v", err)
//	}
//
// Selective collection takes a domain mask:
//
//	sel := report.NoDomains()
//	sel.CPU = true
//	sel.Memory = true
//	snap, err := collector.Default().Collect(ctx, sel)
//
// # Testing
//
// New accepts a probe factory, so tests substitute deterministic probes:
//
//	c := collector.New(collector.WithFactory(fakeFactory))
//
// # Metrics
//
// Prometheus metrics describing collection duration, per-domain probe
// latency, and degradation counts are registered on the default
// registry at package load.
package collector

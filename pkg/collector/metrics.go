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

package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot collection metrics
	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_collection_duration_seconds",
			Help:    "Time taken to collect a complete snapshot",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 5, 10, 30},
		},
	)

	collectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_probe_duration_seconds",
			Help:    "Time taken by individual domain probes",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 10},
		},
		[]string{"domain"}, // platform, cpu, memory, disk, network
	)

	probeFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_probe_failure_total",
			Help: "Domain probe failures that degraded a snapshot",
		},
		[]string{"domain"},
	)

	snapshotDomainCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_snapshot_domains",
			Help: "Number of domains present in the last collected snapshot",
		},
	)
)

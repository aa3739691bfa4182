// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package indexmetrics exposes optional Prometheus instrumentation for
// the pipeline driver. A nil *Collector no-ops every call, so embedding
// a library consumer never has to run a /metrics endpoint to use the
// indexer.
package indexmetrics

import "github.com/prometheus/client_golang/prometheus"

// Path names one of the stages a column can be routed through by the
// pipeline driver.
type Path string

const (
	PathFastInt                    Path = "fast_int"
	PathHashSingle                 Path = "hash_single"
	PathHashComposed               Path = "hash_composed"
	PathHashComposedAdaptiveDirect Path = "hash_composed_adaptive_direct"
)

// Collector bundles the metrics one pipeline driver call updates.
type Collector struct {
	calls      *prometheus.CounterVec
	columnPath *prometheus.CounterVec
	groupCount prometheus.Histogram
}

// New registers a fresh Collector against reg. Passing nil is valid and
// yields a Collector whose methods are all no-ops.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		return nil
	}
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indexthis_calls_total",
			Help: "Number of Index calls, by outcome.",
		}, []string{"outcome"}),
		columnPath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indexthis_column_path_total",
			Help: "Number of columns routed through each indexing path.",
		}, []string{"path"}),
		groupCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexthis_group_count",
			Help:    "Number of groups (G) produced per Index call.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
	reg.MustRegister(c.calls, c.columnPath, c.groupCount)
	return c
}

func (c *Collector) ObserveCall(ok bool) {
	if c == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.calls.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveColumnPath(p Path) {
	if c == nil {
		return
	}
	c.columnPath.WithLabelValues(string(p)).Inc()
}

func (c *Collector) ObserveGroupCount(g int) {
	if c == nil {
		return
	}
	c.groupCount.Observe(float64(g))
}

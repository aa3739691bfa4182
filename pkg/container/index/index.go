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

// Package index assigns group identifiers to the rows of one or more
// equal-length columns, numbering groups by first-occurrence order.
package index

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matrixorigin/indexthis/pkg/common/indexconfig"
	"github.com/matrixorigin/indexthis/pkg/common/indexmetrics"
	"github.com/matrixorigin/indexthis/pkg/container/types"
)

// Result is the record returned by Index: a dense group id per row,
// and the one-based row position of each group's first occurrence.
type Result struct {
	Index    []int32
	FirstObs []int32
}

// metricsCollector is package-level so every call observes against the
// same registry without a caller having to thread one through; a nil
// collector (after SetRegisterer(nil)) no-ops cleanly.
var metricsCollector = indexmetrics.New(prometheus.DefaultRegisterer)

// SetRegisterer replaces the registry metricsCollector reports
// against, for tests that want an isolated registry or embedders that
// want to opt out entirely by passing nil.
func SetRegisterer(reg prometheus.Registerer) {
	metricsCollector = indexmetrics.New(reg)
}

// Index assigns group ids to the rows of cols using the default
// tunables. At least one column is required; all columns must share
// the same row count.
func Index(cols ...*types.Column) (Result, error) {
	return IndexWithTunables(nil, cols...)
}

// IndexWithTunables is Index with an explicit decision-constant
// override; a nil tun is equivalent to indexconfig.Default().
func IndexWithTunables(tun *indexconfig.Tunables, cols ...*types.Column) (Result, error) {
	res, err := runPipeline(tun, cols)
	metricsCollector.ObserveCall(err == nil)
	return res, err
}

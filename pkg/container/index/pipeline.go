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

package index

import (
	"go.uber.org/zap"

	"github.com/matrixorigin/indexthis/pkg/common/indexconfig"
	"github.com/matrixorigin/indexthis/pkg/common/indexmetrics"
	"github.com/matrixorigin/indexthis/pkg/common/moerr"
	"github.com/matrixorigin/indexthis/pkg/container/types"
	"github.com/matrixorigin/indexthis/pkg/logutil"
)

// runPipeline classifies every column, picks the leading run eligible
// for the direct-address path, and folds whatever remains through the
// hash indexer, alternating two scratch index buffers so no stage ever
// rehashes a prior column.
func runPipeline(tun *indexconfig.Tunables, cols []*types.Column) (Result, error) {
	if tun == nil {
		tun = indexconfig.Default()
	}
	if len(cols) == 0 {
		return Result{}, moerr.NewLengthMismatch("at least one column is required")
	}

	n := cols[0].N
	for _, c := range cols[1:] {
		if c.N != n {
			return Result{}, moerr.NewLengthMismatch("columns have differing lengths: %d vs %d", n, c.N)
		}
	}
	if n == 0 {
		return Result{Index: []int32{}, FirstObs: []int32{}}, nil
	}

	descs := make([]*descriptor, len(cols))
	for i, c := range cols {
		d, err := newDescriptor(c, tun)
		if err != nil {
			return Result{}, err
		}
		descs[i] = d
	}

	prefixEnd, prefixBits := selectFastIntPrefix(descs, tun, n)
	prefix := descs[:prefixEnd]
	rest := descs[prefixEnd:]

	index := make([]int32, n)
	firstObs := make([]int32, 0, n)

	var g int32
	if len(prefix) > 0 {
		logutil.GetLogger().Debug("fast-int prefix selected",
			zap.Int("columns", len(prefix)), zap.Int("bits", int(prefixBits)))
		g = directIndex(prefix, index, &firstObs, len(rest) == 0)
		for range prefix {
			metricsCollector.ObserveColumnPath(indexmetrics.PathFastInt)
		}
	} else {
		d := rest[0]
		g = hashSingle(d, index, &firstObs, len(rest) == 1)
		metricsCollector.ObserveColumnPath(indexmetrics.PathHashSingle)
		rest = rest[1:]
	}

	if len(rest) > 0 {
		scratch := make([]int32, n)
		logutil.GetLogger().Debug("folding remaining columns through the composed indexer", zap.Int("rows", n), zap.Int("stages", len(rest)))

		in, out := index, scratch
		outIsScratch := true
		lastWasScratch := false
		for i, d := range rest {
			isFinal := i == len(rest)-1
			newG, usedDirect := hashComposed(d, in, g, tun, out, &firstObs, isFinal)
			g = newG
			if usedDirect {
				metricsCollector.ObserveColumnPath(indexmetrics.PathHashComposedAdaptiveDirect)
			} else {
				metricsCollector.ObserveColumnPath(indexmetrics.PathHashComposed)
			}
			lastWasScratch = outIsScratch
			in, out = out, in
			outIsScratch = !outIsScratch
		}
		if lastWasScratch {
			copy(index, in)
		}
	}

	if int(g) != len(firstObs) {
		return Result{}, moerr.NewInternalError("group count invariant violated: g=%d but recorded %d first-occurrence rows", g, len(firstObs))
	}

	metricsCollector.ObserveGroupCount(int(g))
	return Result{Index: index, FirstObs: firstObs}, nil
}

// selectFastIntPrefix accumulates range_bits across a leading run of
// fast_int_ok columns while the running total stays within the bit
// budget, stopping at the first column that is not fast-int or that
// would blow the budget. The pow2ceil_bits(5n) alternative only ever
// applies when the call has at least two columns overall, matching the
// original source's K >= 2 guard (K being the total column count, not
// the prefix length accumulated so far).
func selectFastIntPrefix(descs []*descriptor, tun *indexconfig.Tunables, n int) (end int, bits uint) {
	totalCols := len(descs)
	for end < len(descs) {
		d := descs[end]
		if !d.fastIntOk {
			break
		}
		next := bits + d.rangeBits
		if int(next) < tun.PrefixBitBudget || (totalCols >= 2 && next <= pow2ceilBits(float64(tun.PrefixRowsMultiplier*n))) {
			bits = next
			end++
			continue
		}
		break
	}
	return end, bits
}

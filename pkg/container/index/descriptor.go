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
	"github.com/matrixorigin/indexthis/pkg/common/moerr"
	"github.com/matrixorigin/indexthis/pkg/container/nulls"
	"github.com/matrixorigin/indexthis/pkg/container/types"
	"github.com/matrixorigin/indexthis/pkg/logutil"
)

// colType is the descriptor's own classification, distinct from the
// host-facing types.Kind: it says how the indexer will treat the
// column's values, not what storage the host handed us.
type colType uint8

const (
	tInt colType = iota
	tDblInt
	tDbl
	tStr
)

// descriptor is the per-column metadata computed once up front and
// consulted by every later stage. Its equality and hashing behavior is
// bundled as closures at construction time so the hot loops in
// direct.go and hashindex.go never need an inner type switch.
type descriptor struct {
	n    int
	typ  colType
	min  int32
	rng  int64 // range of the column's dense key space; named rng, range is a builtin
	rangeBits  uint
	anyMissing bool
	missingID  int64
	fastIntOk  bool

	// nulls is the host-supplied missing-row bitmap for KindBool and
	// KindFactor columns, which are not scanned for missing values. nil
	// means no bitmap was supplied, not that nothing is missing.
	nulls *nulls.Nulls

	int32Buf   []int32
	float64Buf []float64
	stringBuf  []types.StringHandle

	holdsCoercedStorage bool

	equal func(i, j int) bool
	// value returns the per-type raw 32-bit derivation the hash
	// indexers hash, directly for a single column, or via mix2 together
	// with a prior partial index for the composed indexer: the
	// truncated int for INT/DBL_INT, the folded bit pattern for DBL, or
	// the low 32 bits of the interned handle for STR.
	value func(i int) uint32
}

// newDescriptor classifies one column and computes its range, missing
// metadata, and fast-int eligibility.
func newDescriptor(col *types.Column, tun *indexconfig.Tunables) (*descriptor, error) {
	d := &descriptor{n: col.N}

	switch col.Kind {
	case types.KindString:
		d.typ = tStr
		d.stringBuf = col.Strings
	case types.KindOther:
		if col.Coerce == nil {
			return nil, moerr.NewCoercionFailed("column has kind KindOther but no Coerce function")
		}
		handles, err := col.Coerce()
		if err != nil {
			return nil, moerr.NewCoercionFailed("string coercion failed: %v", err)
		}
		d.typ = tStr
		d.stringBuf = handles
		d.holdsCoercedStorage = true
	case types.KindBool:
		d.typ = tInt
		d.int32Buf = col.Int32
		d.min = 0
		d.rng = 3
		d.nulls = col.Nulls
		d.anyMissing = assumedAnyMissing(col.Nulls)
	case types.KindFactor:
		d.typ = tInt
		d.int32Buf = col.Int32
		d.min = 1
		d.rng = int64(col.NLevels) + 1
		d.nulls = col.Nulls
		d.anyMissing = assumedAnyMissing(col.Nulls)
	case types.KindInt32:
		d.typ = tInt
		d.int32Buf = col.Int32
		d.min, d.anyMissing = scanInt32Range(col.Int32)
		max := scanInt32Max(col.Int32, d.min)
		d.rng = int64(max) - int64(d.min) + 2
	case types.KindFloat64:
		d.float64Buf = col.Float64
		isDblInt, min, max, anyMissing := scanFloat64(col.Float64)
		if isDblInt {
			d.typ = tDblInt
			d.min = min
			d.rng = int64(max) - int64(min) + 2
			d.anyMissing = anyMissing
		} else {
			d.typ = tDbl
		}
	default:
		return nil, moerr.NewNonAtomic("column kind %d is not an atomic value sequence", col.Kind)
	}

	if d.typ == tInt || d.typ == tDblInt {
		d.rangeBits = pow2ceilBits(float64(d.rng))
		d.missingID = d.rng - 1
		d.fastIntOk = d.rng < int64(tun.FastIntMaxRange) || d.rng <= int64(tun.FastIntRangeToRowsRatio*d.n)
	}

	if d.nulls != nil {
		logutil.GetLogger().Debug("host-supplied null bitmap attached to column",
			zap.Int("missing_rows", nulls.Count(d.nulls)))
	}

	d.bindPredicates()
	return d, nil
}

func assumedAnyMissing(n *nulls.Nulls) bool {
	if n == nil {
		return true
	}
	return nulls.Any(n)
}

// scanInt32Range finds the minimum non-missing value and whether any
// value is the missing sentinel, mirroring the original source's
// single forward pass (it additionally tracks max; see scanInt32Max).
func scanInt32Range(xs []int32) (min int32, anyMissing bool) {
	i := 0
	for i < len(xs) && xs[i] == types.NAInt32 {
		anyMissing = true
		i++
	}
	if i >= len(xs) {
		return 0, anyMissing
	}
	min = xs[i]
	for ; i < len(xs); i++ {
		v := xs[i]
		if v == types.NAInt32 {
			anyMissing = true
			continue
		}
		if v < min {
			min = v
		}
	}
	return min, anyMissing
}

func scanInt32Max(xs []int32, min int32) int32 {
	max := min
	for _, v := range xs {
		if v == types.NAInt32 {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}

// scanFloat64 decides DBL_INT vs DBL in one pass: a column is DBL_INT
// iff every non-missing (non-NaN) value equals its truncation to
// int32. min/max are meaningful only when isDblInt is true.
func scanFloat64(xs []float64) (isDblInt bool, min, max int32, anyMissing bool) {
	isDblInt = true
	first := true
	for _, x := range xs {
		if isNaN(x) {
			anyMissing = true
			continue
		}
		trunc := int32(x)
		if float64(trunc) != x {
			isDblInt = false
			continue
		}
		if first {
			min, max = trunc, trunc
			first = false
			continue
		}
		if trunc < min {
			min = trunc
		}
		if trunc > max {
			max = trunc
		}
	}
	return isDblInt, min, max, anyMissing
}

// bindPredicates installs per-type equality and hash closures once per
// column, so callers never branch on typ inside a per-row loop.
func (d *descriptor) bindPredicates() {
	switch d.typ {
	case tStr:
		d.equal = func(i, j int) bool { return d.stringBuf[i] == d.stringBuf[j] }
		d.value = func(i int) uint32 { return uint32(d.stringBuf[i] & 0xFFFFFFFF) }
	case tInt:
		if d.nulls != nil {
			// A bitmap-flagged row is missing whatever raw code sits in
			// int32Buf for it; route both rows through normalized so two
			// missing rows always compare equal, whether flagged by the
			// bitmap or stored as NAInt32.
			d.equal = func(i, j int) bool { return d.normalized(i) == d.normalized(j) }
			d.value = func(i int) uint32 { return uint32(d.normalized(i)) }
		} else {
			d.equal = func(i, j int) bool { return d.int32Buf[i] == d.int32Buf[j] }
			d.value = func(i int) uint32 { return uint32(d.int32Buf[i]) }
		}
	case tDblInt:
		d.equal = func(i, j int) bool { return floatEqual(d.float64Buf[i], d.float64Buf[j]) }
		if d.anyMissing {
			d.value = func(i int) uint32 {
				x := d.float64Buf[i]
				if isNaN(x) {
					return uint32(d.missingID)
				}
				return uint32(int32(x))
			}
		} else {
			d.value = func(i int) uint32 { return uint32(int32(d.float64Buf[i])) }
		}
	case tDbl:
		d.equal = func(i, j int) bool { return floatEqual(d.float64Buf[i], d.float64Buf[j]) }
		d.value = func(i int) uint32 { return foldDouble(d.float64Buf[i]) }
	}
}

// normalized returns the dense key component for row i of an integer-
// like column (tInt or tDblInt only): v-min when present, the missing
// sentinel otherwise. Used by the direct-address indexer (direct.go)
// and the composed indexer's adaptive direct-address branch
// (hashindex.go).
func (d *descriptor) normalized(i int) int64 {
	if d.typ == tInt {
		if d.nulls != nil && nulls.Contains(d.nulls, uint64(i)) {
			return d.missingID
		}
		v := d.int32Buf[i]
		if v == types.NAInt32 {
			return d.missingID
		}
		return int64(v) - int64(d.min)
	}
	// tDblInt
	x := d.float64Buf[i]
	if isNaN(x) {
		return d.missingID
	}
	return int64(int32(x)) - int64(d.min)
}

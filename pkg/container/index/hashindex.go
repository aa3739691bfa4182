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

import "github.com/matrixorigin/indexthis/pkg/common/indexconfig"

// openAddressTable is a linear-probe hash table whose slots hold a
// one-based row number (0 means empty), mirroring
// pkg/container/hashtable.Int64HashMap's findBucket probe loop but
// storing the row position rather than a bucket pointer: a probe is
// never trusted on its own, the caller always re-confirms equality
// against the stored row before accepting a hit.
type openAddressTable struct {
	rows []int32
	bits uint
	mask uint32
}

func newOpenAddressTable(n int) *openAddressTable {
	bits := pow2ceilBits(float64(2 * n))
	if bits < 8 {
		bits = 8
	}
	size := uint32(1) << bits
	return &openAddressTable{
		rows: make([]int32, size),
		bits: bits,
		mask: size - 1,
	}
}

// probe walks the table starting at h, calling same(row) on every
// occupied slot it passes, until it finds a slot same accepts or an
// empty slot. It returns the empty slot's index as (slot, -1) on a
// full miss, or (slot, row) on a hit.
func (t *openAddressTable) probe(h uint32, same func(row int32) bool) (slot uint32, hitRow int32) {
	slot = h & t.mask
	for {
		stored := t.rows[slot]
		if stored == 0 {
			return slot, -1
		}
		row := stored - 1
		if same(row) {
			return slot, row
		}
		slot = (slot + 1) & t.mask
	}
}

// hashSingle indexes one column that did not qualify for the
// direct-address path: an open-addressing table keyed by mix1 of the
// column's raw per-type value, collisions confirmed by d.equal.
func hashSingle(d *descriptor, index []int32, firstObs *[]int32, isFinal bool) int32 {
	t := newOpenAddressTable(d.n)
	var g int32
	for i := 0; i < d.n; i++ {
		h := mix1(d.value(i), t.bits)
		slot, hit := t.probe(h, func(row int32) bool { return d.equal(int(row), i) })
		if hit >= 0 {
			index[i] = index[hit]
			continue
		}
		g++
		t.rows[slot] = int32(i) + 1
		index[i] = g
		if isFinal {
			*firstObs = append(*firstObs, int32(i+1))
		}
	}
	return g
}

// hashComposed combines d with a prior partial index prevIndex
// (already holding prevG distinct groups) into a new, freshly numbered
// group assignment. The stage's own group counter always starts at 0
// and the returned index is a complete replacement, not an extension
// of prevIndex's numbering. Only the adaptive switch below consults
// prevG, and only to size a direct-address offset.
//
// When d is fast-int and the combined key still fits the bit budget,
// this dispatches to a direct-address table keyed by
// prevIndex[i] + (d.normalized(i) << pow2ceilBits(prevG)) instead of
// hashing, matching the original source's adaptive switch.
func hashComposed(d *descriptor, prevIndex []int32, prevG int32, tun *indexconfig.Tunables, index []int32, firstObs *[]int32, isFinal bool) (g int32, usedDirect bool) {
	if (d.typ == tInt || d.typ == tDblInt) && d.fastIntOk && prevG > 0 {
		prevBits := pow2ceilBits(float64(prevG))
		sumBits := prevBits + d.rangeBits
		if int(sumBits) < tun.PrefixBitBudget || sumBits <= pow2ceilBits(float64(tun.PrefixRowsMultiplier*d.n)) {
			size := int64(1) << (sumBits + 1)
			t := newDirectTable(size)
			for i := 0; i < d.n; i++ {
				key := int64(prevIndex[i]) + (d.normalized(i) << prevBits)
				assignDirect(t, key, i, index, firstObs, isFinal)
			}
			return t.g, true
		}
	}

	t := newOpenAddressTable(d.n)
	for i := 0; i < d.n; i++ {
		h := mix2(d.value(i), uint32(prevIndex[i]), t.bits)
		slot, hit := t.probe(h, func(row int32) bool {
			return prevIndex[row] == prevIndex[i] && d.equal(int(row), i)
		})
		if hit >= 0 {
			index[i] = index[hit]
			continue
		}
		g++
		t.rows[slot] = int32(i) + 1
		index[i] = g
		if isFinal {
			*firstObs = append(*firstObs, int32(i+1))
		}
	}
	return g, false
}

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

import "math"

// mulConstant is the multiplier used by mix1/mix2, a large odd constant
// near 2**31*pi/2. The high-bit-retention shift below gives acceptable
// bucket distribution without a full mixing function; every probe that
// lands on a non-empty slot is always confirmed by direct equality, so
// the hash itself is never trusted on its own (see hashindex.go).
const mulConstant uint32 = 3141592653

// mix1 maps v into [0, 2**bits) by multiplying by mulConstant and
// keeping the top bits.
func mix1(v uint32, bits uint) uint32 {
	return (mulConstant * v) >> (32 - bits)
}

// mix2 combines two values into [0, 2**bits) by mixing each
// independently and XOR-ing the results, so that composing a new column
// with an existing partial index (hashindex.go's composed path) never
// needs to rehash the prior columns from scratch.
func mix2(v1, v2 uint32, bits uint) uint32 {
	return ((mulConstant * v1) ^ (mulConstant * v2)) >> (32 - bits)
}

// foldDouble reinterprets x's 64 bits as two uint32 halves and sums
// them, giving a cheap-to-compute bucket key for floating point values
// that is not required to be collision-free (collisions are always
// confirmed by floatEqual).
func foldDouble(x float64) uint32 {
	bits64 := math.Float64bits(x)
	return uint32(bits64) + uint32(bits64>>32)
}

// floatEqual treats every NaN as equal to every other NaN, the single
// canonical missing state, and otherwise falls back to IEEE equality.
// Distinct NaN bit patterns are never distinguished.
func floatEqual(x, y float64) bool {
	if isNaN(x) {
		return isNaN(y)
	}
	return x == y
}

func isNaN(x float64) bool {
	return x != x
}

// pow2ceilBits returns ceil(log2(x+1)) for x >= 0, the number of bits
// needed to address a range of x+1 distinct dense values (x itself plus
// one guard slot, per the original source's sizing convention).
func pow2ceilBits(x float64) uint {
	if x < 0 {
		return 0
	}
	return uint(math.Ceil(math.Log2(x + 1)))
}

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
	"math"
	"testing"
)

func TestMix1Range(t *testing.T) {
	cases := []struct {
		v    uint32
		bits uint
	}{
		{0, 8}, {1, 8}, {1 << 31, 16}, {0xFFFFFFFF, 10},
	}
	for _, c := range cases {
		got := mix1(c.v, c.bits)
		if limit := uint32(1) << c.bits; got >= limit {
			t.Errorf("mix1(%d, %d) = %d, want < %d", c.v, c.bits, got, limit)
		}
	}
}

func TestMix2Range(t *testing.T) {
	got := mix2(123456789, 987654321, 12)
	if limit := uint32(1) << 12; got >= limit {
		t.Errorf("mix2(...) = %d, want < %d", got, limit)
	}
}

func TestMix2SymmetricInArgOrderOnlyByXor(t *testing.T) {
	// mix2 XORs the two mixed halves, so swapping v1/v2 must not change
	// the result.
	a := mix2(11, 22, 16)
	b := mix2(22, 11, 16)
	if a != b {
		t.Errorf("mix2 is not order-symmetric: %d != %d", a, b)
	}
}

func TestFoldDouble(t *testing.T) {
	bits := math.Float64bits(3.14)
	want := uint32(bits) + uint32(bits>>32)
	if got := foldDouble(3.14); got != want {
		t.Errorf("foldDouble(3.14) = %d, want %d", got, want)
	}
}

func TestFloatEqualCollapsesMissing(t *testing.T) {
	nan1 := math.NaN()
	nan2 := math.Float64frombits(math.Float64bits(math.NaN()) ^ 1) // distinct bit pattern, still NaN
	if !floatEqual(nan1, nan2) {
		t.Error("floatEqual must treat all NaN as equal")
	}
	if floatEqual(nan1, 1.0) {
		t.Error("floatEqual must not treat NaN as equal to a real value")
	}
	if !floatEqual(2.5, 2.5) {
		t.Error("floatEqual must hold for equal non-missing values")
	}
}

func TestPow2ceilBits(t *testing.T) {
	cases := []struct {
		x    float64
		want uint
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {99998, 17},
	}
	for _, c := range cases {
		if got := pow2ceilBits(c.x); got != c.want {
			t.Errorf("pow2ceilBits(%v) = %d, want %d", c.x, got, c.want)
		}
	}
}

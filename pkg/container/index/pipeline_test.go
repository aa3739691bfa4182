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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/indexthis/pkg/container/nulls"
	"github.com/matrixorigin/indexthis/pkg/container/types"
)

func intCol(vals ...int32) *types.Column {
	return &types.Column{Kind: types.KindInt32, N: len(vals), Int32: vals}
}

func floatCol(vals ...float64) *types.Column {
	return &types.Column{Kind: types.KindFloat64, N: len(vals), Float64: vals}
}

func stringCol(vals ...string) *types.Column {
	interned := map[string]types.StringHandle{}
	var next types.StringHandle = 1
	handles := make([]types.StringHandle, len(vals))
	for i, s := range vals {
		h, ok := interned[s]
		if !ok {
			h = next
			interned[s] = h
			next++
		}
		handles[i] = h
	}
	return &types.Column{Kind: types.KindString, N: len(vals), Strings: handles}
}

func TestS1SingleIntColumnWithMissing(t *testing.T) {
	col := intCol(3, 1, 3, types.NAInt32, 1, types.NAInt32)
	res, err := Index(col)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 1, 3, 2, 3}, res.Index)
	assert.Equal(t, []int32{1, 2, 4}, res.FirstObs)
}

func TestS2TwoIntColumns(t *testing.T) {
	a := intCol(1, 1, 2, 2, 1)
	b := intCol(10, 20, 10, 10, 10)
	res, err := Index(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 3, 1}, res.Index)
	assert.Equal(t, []int32{1, 2, 3}, res.FirstObs)
}

func TestS3FloatColumnWithNaN(t *testing.T) {
	nan := math.NaN()
	col := floatCol(1.0, 2.0, nan, 1.0, nan)
	res, err := Index(col)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 1, 3}, res.Index)
	assert.Equal(t, []int32{1, 2, 3}, res.FirstObs)
}

func TestS4StringColumnWithRepeats(t *testing.T) {
	col := stringCol("x", "y", "x", "z", "y")
	res, err := Index(col)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 1, 3, 2}, res.Index)
	assert.Equal(t, []int32{1, 2, 4}, res.FirstObs)
}

func TestS5MixedIntAndString(t *testing.T) {
	a := intCol(1, 1, 2, 1)
	b := stringCol("a", "b", "a", "a")
	res, err := Index(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 1}, res.Index)
	assert.Equal(t, []int32{1, 2, 3}, res.FirstObs)
}

func TestS6HighCardinalityInt(t *testing.T) {
	col := intCol(1e9, 1e9+1, 1e9, 1e9+2)
	res, err := Index(col)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 1, 3}, res.Index)
	assert.Equal(t, []int32{1, 2, 4}, res.FirstObs)
}

func TestS7BoolColumnWithHostSuppliedNulls(t *testing.T) {
	// Raw codes are 0,0,1,0,0, but row 1 is flagged missing by the
	// bitmap, so it must land in its own group rather than with row 0.
	col := &types.Column{
		Kind:  types.KindBool,
		N:     5,
		Int32: []int32{0, 0, 1, 0, 0},
		Nulls: nulls.Build(1),
	}
	res, err := Index(col)
	require.NoError(t, err)
	checkUniversalProperties(t, res, []int{1, 2, 3, 1, 1})
}

func TestEmptyInputIsRejected(t *testing.T) {
	_, err := Index()
	require.Error(t, err)
}

func TestLengthMismatchIsRejected(t *testing.T) {
	_, err := Index(intCol(1, 2, 3), intCol(1, 2))
	require.Error(t, err)
}

func TestZeroRowsProducesEmptyResult(t *testing.T) {
	res, err := Index(intCol())
	require.NoError(t, err)
	assert.Empty(t, res.Index)
	assert.Empty(t, res.FirstObs)
}

// checkUniversalProperties exercises the invariants that must hold for
// any accepted input, given the expected equivalence classes as a
// []int (arbitrary labels, only equality among them matters).
func checkUniversalProperties(t *testing.T, res Result, wantClasses []int) {
	t.Helper()
	n := len(wantClasses)
	require.Len(t, res.Index, n)

	var g int32
	for _, v := range res.Index {
		if v > g {
			g = v
		}
	}
	assert.EqualValues(t, g, len(res.FirstObs))

	seen := map[int32]bool{}
	for _, v := range res.Index {
		assert.True(t, v >= 1 && v <= g)
		seen[v] = true
	}
	assert.Len(t, seen, int(g))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sameClass := wantClasses[i] == wantClasses[j]
			sameGroup := res.Index[i] == res.Index[j]
			assert.Equal(t, sameClass, sameGroup, "row %d vs %d", i, j)
		}
	}

	firstSeenAt := map[int32]int32{}
	for i, v := range res.Index {
		if _, ok := firstSeenAt[v]; !ok {
			firstSeenAt[v] = int32(i + 1)
		}
	}
	for g, pos := range firstSeenAt {
		assert.Equal(t, pos, res.FirstObs[g-1])
	}
	for i := 1; i < len(res.FirstObs); i++ {
		assert.Less(t, res.FirstObs[i-1], res.FirstObs[i])
	}
}

func TestUniversalPropertiesThreeFastIntColumns(t *testing.T) {
	a := intCol(1, 1, 2, 2, 1, 3)
	b := intCol(1, 2, 1, 1, 2, 1)
	c := intCol(5, 5, 5, 6, 5, 5)
	res, err := Index(a, b, c)
	require.NoError(t, err)
	checkUniversalProperties(t, res, []int{
		101, 102, 201, 211, 102, 301,
	})
}

func TestIdempotenceOnIndices(t *testing.T) {
	a := intCol(7, 3, 7, 9, 3)
	first, err := Index(a)
	require.NoError(t, err)

	reIndexed := &types.Column{Kind: types.KindInt32, N: len(first.Index), Int32: first.Index}
	second, err := Index(reIndexed)
	require.NoError(t, err)

	assert.Equal(t, first.Index, second.Index)
	assert.Equal(t, first.FirstObs, second.FirstObs)
}

func TestColumnOrderInvarianceOfEquivalenceClasses(t *testing.T) {
	a := intCol(1, 1, 2, 2, 1)
	b := stringCol("x", "y", "x", "x", "y")

	res1, err := Index(a, b)
	require.NoError(t, err)
	res2, err := Index(b, a)
	require.NoError(t, err)

	assert.Equal(t, int(maxOf(res1.Index)), int(maxOf(res2.Index)))
	for i := 0; i < len(res1.Index); i++ {
		for j := 0; j < len(res1.Index); j++ {
			assert.Equal(t, res1.Index[i] == res1.Index[j], res2.Index[i] == res2.Index[j])
		}
	}
}

func maxOf(xs []int32) int32 {
	var m int32
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

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

// Package nulls wraps the roaring bitmap library to track which rows of
// a host-supplied column are missing, for the column kinds the indexer
// does not scan for missing values (bool and factor columns).
package nulls

import (
	roaring "github.com/RoaringBitmap/roaring/roaring64"
)

// Nulls is a sparse set of missing row positions.
type Nulls struct {
	Np *roaring.Bitmap
}

// New returns an empty Nulls.
func New() *Nulls {
	return &Nulls{Np: roaring.New()}
}

// Build returns a Nulls containing exactly the given rows.
func Build(rows ...uint64) *Nulls {
	n := New()
	n.Add(rows...)
	return n
}

// Any reports whether any row is marked missing. A nil Nulls, or one
// with a nil bitmap, has no missing rows.
func Any(n *Nulls) bool {
	if n == nil || n.Np == nil {
		return false
	}
	return !n.Np.IsEmpty()
}

// Contains reports whether row is marked missing.
func Contains(n *Nulls, row uint64) bool {
	return n != nil && n.Np != nil && n.Np.Contains(row)
}

// Count returns the number of rows marked missing.
func Count(n *Nulls) int {
	if n == nil || n.Np == nil {
		return 0
	}
	return int(n.Np.GetCardinality())
}

// Add marks rows as missing.
func (n *Nulls) Add(rows ...uint64) {
	if n.Np == nil {
		n.Np = roaring.New()
	}
	n.Np.AddMany(rows)
}

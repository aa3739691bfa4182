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

// Package types defines the column shape the indexer reads. A Column is
// a borrowed view over one of the host runtime's typed buffers: the
// indexer never copies or owns the backing storage, only the descriptor
// metadata it derives from it.
package types

import "github.com/matrixorigin/indexthis/pkg/container/nulls"

// Kind classifies the storage a Column carries. It is distinct from the
// descriptor classification (INT / DBL_INT / DBL / STR) computed in
// package index: Kind says what the host handed us, the descriptor says
// how the indexer will treat it.
type Kind uint8

const (
	// KindInt32 is a plain 32-bit signed integer column. Missing values
	// are the sentinel NAInt32.
	KindInt32 Kind = iota
	// KindBool is a logical column stored as 0/1/NAInt32 in Int32.
	KindBool
	// KindFactor is a level-coded column stored as 1-based codes in
	// Int32, with NLevels giving the size of the level vector.
	KindFactor
	// KindFloat64 is a 64-bit floating point column. Missing is any NaN;
	// bit patterns of NaN are not distinguished.
	KindFloat64
	// KindString carries already-interned string identity tokens.
	KindString
	// KindOther is any atomic kind the host does not expose natively;
	// Coerce converts it to KindString's representation on demand.
	KindOther
)

// NAInt32 is the integer missing-value sentinel, chosen to mirror the
// platform convention the original source relies on (the smallest
// representable int32): a legitimate data value this small is assumed
// never to occur.
const NAInt32 int32 = -1 << 31

// StringHandle is an opaque interned-string identity token. Two rows
// compare equal under STR semantics iff their handles are numerically
// equal; the indexer never looks at string contents.
type StringHandle uint64

// Column is one input column: either a source column or a previously
// computed index reinterpreted as an integer column, so that indexing
// an index reproduces it up to relabeling.
type Column struct {
	Kind Kind
	N    int

	Int32   []int32        // KindInt32, KindBool, KindFactor
	Float64 []float64      // KindFloat64
	Strings []StringHandle // KindString

	// NLevels is the size of the level vector for KindFactor columns.
	NLevels int

	// Nulls, if non-nil, is a host-supplied missing-value bitmap for
	// KindBool/KindFactor columns; a row it flags is missing whatever code
	// Int32 holds for it. When nil, such columns are treated as possibly missing
	// without a scan (see descriptor.go). When supplied, Any() is
	// consulted instead, still no per-row scan, just a cheap cardinality
	// check against a bitmap the host already maintains.
	Nulls *nulls.Nulls

	// Coerce converts a KindOther column to string handles. It is the
	// host's string-coercion facility, out of scope for this package;
	// the indexer only calls it and reports ErrCoercionFailed if it
	// returns an error.
	Coerce func() ([]StringHandle, error)
}

// Len returns the column's row count regardless of Kind.
func (c *Column) Len() int {
	return c.N
}

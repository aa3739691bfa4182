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

// Package indexconfig carries the fast-int decision thresholds as
// empirically chosen constants that callers may override, provided the
// default matches the values this package ships with.
package indexconfig

import "github.com/BurntSushi/toml"

// Tunables overrides the decision-rule constants used by the column
// descriptor, the pipeline driver's prefix selection, and the composed
// indexer's adaptive switch. Zero-value Tunables is meaningless; always
// obtain one from Default or LoadTOML.
type Tunables struct {
	// FastIntMaxRange is the unconditional fast-int cardinality ceiling
	// (`range < 100000`).
	FastIntMaxRange int `toml:"fast_int_max_range"`
	// FastIntRangeToRowsRatio bounds range against row count
	// (`range <= 2n`, i.e. ratio 2).
	FastIntRangeToRowsRatio int `toml:"fast_int_range_to_rows_ratio"`
	// PrefixBitBudget is the unconditional bit budget for the fast-int
	// column prefix and for the composed indexer's adaptive switch
	// (`< 17`).
	PrefixBitBudget int `toml:"prefix_bit_budget"`
	// PrefixRowsMultiplier scales n for the alternate bit budget check
	// (`pow2ceil_bits(5n)`).
	PrefixRowsMultiplier int `toml:"prefix_rows_multiplier"`
}

// Default returns the Tunables matching this package's stated constants
// exactly. Every caller that does not load an override file gets this.
func Default() *Tunables {
	return &Tunables{
		FastIntMaxRange:         100000,
		FastIntRangeToRowsRatio: 2,
		PrefixBitBudget:         17,
		PrefixRowsMultiplier:    5,
	}
}

// LoadTOML reads a Tunables override from path, starting from Default
// and overwriting only the fields present in the file.
func LoadTOML(path string) (*Tunables, error) {
	t := Default()
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, err
	}
	return t, nil
}

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

// Command indexthis reads a CSV file and prints the group index and
// first-occurrence positions produced by treating every column as an
// input to pkg/container/index.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	goccyjson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/indexthis/pkg/common/indexconfig"
	"github.com/matrixorigin/indexthis/pkg/common/moerr"
	"github.com/matrixorigin/indexthis/pkg/container/index"
	"github.com/matrixorigin/indexthis/pkg/container/nulls"
	"github.com/matrixorigin/indexthis/pkg/container/types"
	"github.com/matrixorigin/indexthis/pkg/logutil"
)

var version = "0.1.0"

func main() {
	var configPath string
	var hasHeader bool

	root := &cobra.Command{
		Use:   "indexthis",
		Short: "Assign group ids to the rows of a CSV file's columns",
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("indexthis v" + version)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run [csv-file]",
		Short: "Index the columns of a CSV file (stdin if no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			return run(in, hasHeader, configPath)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "optional TOML tunables override")
	runCmd.Flags().BoolVar(&hasHeader, "header", true, "first row is a header row and is skipped")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliResult is the JSON shape printed to stdout; it mirrors
// index.Result field-for-field, index then first_obs, but with
// exported JSON tags of its own so the library type's shape can evolve
// independently of the CLI's wire format.
type cliResult struct {
	Index    []int32 `json:"index"`
	FirstObs []int32 `json:"first_obs"`
}

func run(in io.Reader, hasHeader bool, configPath string) error {
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return fmt.Errorf("reading csv: %w", err)
	}
	if hasHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return fmt.Errorf("no data rows")
	}

	cols := columnsFromRecords(records)

	var tun *indexconfig.Tunables
	if configPath != "" {
		tun, err = indexconfig.LoadTOML(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	logutil.GetLogger().Info("indexing csv input",
		zap.Int("columns", len(cols)), zap.Int("rows", cols[0].N))

	res, err := index.IndexWithTunables(tun, cols...)
	if err != nil {
		if errors.Is(err, moerr.ErrLengthMismatchSentinel) {
			return fmt.Errorf("csv columns must all have the same row count: %w", err)
		}
		return fmt.Errorf("indexing: %w", err)
	}

	enc := goccyjson.NewEncoder(os.Stdout)
	return enc.Encode(cliResult{Index: res.Index, FirstObs: res.FirstObs})
}

// columnsFromRecords classifies each CSV column independently: a
// column is KindBool if it has at least one non-empty cell and every
// non-empty cell reads "true" or "false" (case-insensitive), KindInt32
// if every cell parses as an integer
// (empty cells become the missing sentinel), KindFloat64 if every cell
// parses as a float (empty cells become NaN), and KindString
// otherwise. This is a CLI-only convenience coercion, not part of the
// library's interface.
func columnsFromRecords(records [][]string) []*types.Column {
	numCols := len(records[0])
	n := len(records)
	cols := make([]*types.Column, numCols)

	for c := 0; c < numCols; c++ {
		asInt := make([]int32, n)
		intOK := true
		asFloat := make([]float64, n)
		floatOK := true
		asBool := make([]int32, n)
		boolOK := true
		hasValue := false
		var missingRows []uint64

		for r, row := range records {
			cell := row[c]
			if cell == "" {
				asInt[r] = types.NAInt32
				asFloat[r] = math.NaN()
				missingRows = append(missingRows, uint64(r))
				continue
			}
			hasValue = true
			if intOK {
				v, err := strconv.ParseInt(cell, 10, 32)
				if err != nil {
					intOK = false
				} else {
					asInt[r] = int32(v)
				}
			}
			if floatOK {
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					floatOK = false
				} else {
					asFloat[r] = v
				}
			}
			if boolOK {
				switch strings.ToLower(cell) {
				case "true":
					asBool[r] = 1
				case "false":
					asBool[r] = 0
				default:
					boolOK = false
				}
			}
		}

		switch {
		case boolOK && hasValue && !intOK:
			var colNulls *nulls.Nulls
			if len(missingRows) > 0 {
				colNulls = nulls.Build(missingRows...)
				logutil.GetLogger().Debug("detected boolean column with missing values",
					zap.Int("column", c), zap.Int("missing_rows", nulls.Count(colNulls)))
			}
			cols[c] = &types.Column{Kind: types.KindBool, N: n, Int32: asBool, Nulls: colNulls}
		case intOK:
			cols[c] = &types.Column{Kind: types.KindInt32, N: n, Int32: asInt}
		case floatOK:
			cols[c] = &types.Column{Kind: types.KindFloat64, N: n, Float64: asFloat}
		default:
			cols[c] = stringColumnFromRecords(records, c)
		}
	}
	return cols
}

// stringColumnFromRecords interns each cell's text into a per-column
// handle table, standing in for the interned-string runtime a real
// host embedding this library would already maintain.
func stringColumnFromRecords(records [][]string, c int) *types.Column {
	n := len(records)
	interned := make(map[string]types.StringHandle, n)
	handles := make([]types.StringHandle, n)
	var next types.StringHandle = 1
	for r, row := range records {
		cell := row[c]
		h, ok := interned[cell]
		if !ok {
			h = next
			interned[cell] = h
			next++
		}
		handles[r] = h
	}
	return &types.Column{Kind: types.KindString, N: n, Strings: handles}
}

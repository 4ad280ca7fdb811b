//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/nullcheck/loader"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a dump",
		Long: `Convert reads a dump, checks that it resolves, and writes it in the format given by
the name of the output file, e.g., unit.json to unit.msgpack.s2.`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}
}

func runConvert(_ *cobra.Command, args []string) (err error) {
	inPath, outPath := args[0], args[1]
	inFormat, err := loader.FormatOf(inPath)
	if err != nil {
		return err
	}
	outFormat, err := loader.FormatOf(outPath)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	d, err := loader.ReadDump(bufio.NewReader(in), inFormat)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if _, err := loader.Resolve(d); err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	w := bufio.NewWriter(out)
	if err := loader.Encode(w, d, outFormat); err != nil {
		return fmt.Errorf("%s: %w", outPath, err)
	}
	return w.Flush()
}

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

package diagnostic

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func pos(file string, line, col int) token.Position {
	return token.Position{Filename: file, Line: line, Column: col}
}

func TestEngine_Sorted(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.Add(
		Warningf(pos("b.m", 1, 1), nil, "third"),
		Warningf(pos("a.m", 10, 2), nil, "second"),
		Warningf(pos("a.m", 3, 9), nil, "first"),
		Warningf(pos("b.m", 1, 1), nil, "fourth"),
	)

	var msgs []string
	for _, d := range e.Diagnostics(false /* grouping */) {
		msgs = append(msgs, d.Message)
	}
	if diff := cmp.Diff([]string{"first", "second", "third", "fourth"}, msgs); diff != "" {
		t.Errorf("unexpected diagnostic order (-want +got):\n%s", diff)
	}
}

func TestEngine_Grouping(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.Add(
		Warningf(pos("a.m", 3, 9), []string{"Foo"}, "Array element should be nonnull"),
		Warningf(pos("a.m", 3, 9), []string{"Bar", "Foo"}, "Array element should be nonnull"),
		Warningf(pos("a.m", 3, 9), []string{"Foo"}, "Dictionary key should be nonnull"),
	)

	ungrouped := e.Diagnostics(false /* grouping */)
	require.Len(t, ungrouped, 3)

	grouped := e.Diagnostics(true /* grouping */)
	require.Len(t, grouped, 2)
	require.Equal(t, 1, grouped[0].Similar)
	require.Equal(t, []string{"Foo", "Bar"}, grouped[0].Subjects)
	require.Zero(t, grouped[1].Similar)

	// Grouping does not alter the stored diagnostics.
	require.Len(t, e.Diagnostics(false /* grouping */), 3)
}

func TestEngine_RelativePositions(t *testing.T) {
	t.Parallel()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	e := NewEngine()
	e.Add(Warningf(pos(filepath.Join(cwd, "Foo.m"), 4, 2), nil, "msg"))
	ds := e.Diagnostics(false /* grouping */)
	require.Len(t, ds, 1)
	require.Equal(t, "Foo.m:4:2: warning: msg", ds[0].String())
}

func TestBag(t *testing.T) {
	t.Parallel()

	var b Bag
	b.Report(Warningf(pos("a.m", 1, 1), []string{"Foo"}, "%s[%s %s] expects nonnull argument", "-", "Foo", "bar:"))
	b.Report(Remarkf(pos("a.m", 2, 1), "Variable nullability: %s", "nonnull"))
	Discard.Report(Warningf(pos("a.m", 1, 1), nil, "dropped"))

	require.Equal(t, 2, b.Len())
	require.Equal(t, []string{"-[Foo bar:] expects nonnull argument"}, b.Messages(Warning))
	require.Equal(t, []string{"Variable nullability: nonnull"}, b.Messages(Remark))
	require.Equal(t, "a.m:2:1: remark: Variable nullability: nonnull", b.Diagnostics()[1].String())
}

func TestSeverityMarshalText(t *testing.T) {
	t.Parallel()

	text, err := Remark.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "remark", string(text))
}

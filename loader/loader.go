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

// Package loader reads the translation-unit dumps produced by the external frontend and resolves
// them into the syntax trees the analysis works on.
package loader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/nullcheck/objc"
)

// Codec is the serialization of a dump.
type Codec uint8

const (
	// JSON is a JSON document.
	JSON Codec = iota + 1
	// MessagePack is a MessagePack document with the same field names as the JSON one.
	MessagePack
)

// Format describes how a dump file is stored.
type Format struct {
	Codec Codec
	// Compressed is true for s2 stream-compressed dumps.
	Compressed bool
}

// String returns the file name suffix of the format.
func (f Format) String() string {
	var s string
	switch f.Codec {
	case JSON:
		s = ".json"
	case MessagePack:
		s = ".msgpack"
	default:
		return "<unknown>"
	}
	if f.Compressed {
		s += ".s2"
	}
	return s
}

// FormatOf determines the format of a dump from its file name: ".json" or ".msgpack", optionally
// followed by ".s2".
func FormatOf(path string) (Format, error) {
	var f Format
	name := strings.ToLower(filepath.Base(path))
	if trimmed, ok := strings.CutSuffix(name, ".s2"); ok {
		f.Compressed = true
		name = trimmed
	}
	switch filepath.Ext(name) {
	case ".json":
		f.Codec = JSON
	case ".msgpack":
		f.Codec = MessagePack
	default:
		return Format{}, fmt.Errorf("cannot determine dump format of %q", path)
	}
	return f, nil
}

// Load reads and resolves the dump stored at path.
func Load(path string) (*objc.TranslationUnit, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tu, err := Decode(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return tu, nil
}

// Decode reads a dump of the given format from r and resolves it.
func Decode(r io.Reader, format Format) (*objc.TranslationUnit, error) {
	d, err := ReadDump(r, format)
	if err != nil {
		return nil, err
	}
	return Resolve(d)
}

// ReadDump reads the wire form of a dump without resolving it.
func ReadDump(r io.Reader, format Format) (*Dump, error) {
	if format.Compressed {
		r = s2.NewReader(r)
	}

	var d Dump
	var err error
	switch format.Codec {
	case JSON:
		err = json.NewDecoder(r).Decode(&d)
	case MessagePack:
		err = msgpack.NewDecoder(r).Decode(&d)
	default:
		return nil, fmt.Errorf("unknown codec %d", format.Codec)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s dump: %w", format, err)
	}
	return &d, nil
}

// Encode writes the dump to w in the given format.
func Encode(w io.Writer, d *Dump, format Format) (err error) {
	if format.Compressed {
		writer := s2.NewWriter(w)
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
		w = writer
	}

	switch format.Codec {
	case JSON:
		return json.NewEncoder(w).Encode(d)
	case MessagePack:
		return msgpack.NewEncoder(w).Encode(d)
	default:
		return fmt.Errorf("unknown codec %d", format.Codec)
	}
}

// Sources is a set of absolute, cleaned source file paths.
type Sources map[string]struct{}

// Contains reports whether path, made absolute against the working directory, is in the set.
func (s Sources) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := s[abs]
	return ok
}

// Sorted returns the paths in the set in lexical order.
func (s Sources) Sorted() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

type compileCommand struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// CompileCommands reads a compilation database (compile_commands.json) and returns the set of
// source files it compiles. Relative file names are resolved against the entry's directory, and
// relative directories against the directory of the database.
func CompileCommands(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var commands []compileCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("parse compilation database %q: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	sources := make(Sources, len(commands))
	for i, c := range commands {
		if c.File == "" {
			return nil, fmt.Errorf("compilation database %q: entry %d has no file", path, i)
		}
		dir := c.Directory
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		file := c.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		sources[filepath.Clean(file)] = struct{}{}
	}
	return sources, nil
}

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

// main package makes it possible to run the analysis as a standalone checker over dumps produced
// by the frontend. Diagnostics are printed to stdout; the exit status is 0 even if there are
// warnings, and 1 if the dumps cannot be loaded or analyzed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/nullcheck"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/loader"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nullcheck [flags] <dump>...",
		Short: "Nullability checker for Objective-C",
		Long: `nullcheck reports nullable values that flow into places declared nonnull, and nonnull
instance variables that designated initializers may leave uninitialized.

Each argument is a translation-unit dump written by the frontend (.json or .msgpack,
optionally followed by .s2).`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	flags := cmd.Flags()
	flags.Bool("debug", false, "also report inferred variable nullability and unexpected expression shapes")
	flags.StringArray("filter", nil, "only report diagnostics implicating a matching class (text, or /regex/); repeatable")
	flags.String("config", "", "configuration file (default: "+config.FileName+" in the working directory or a parent)")
	flags.StringP("compile-commands", "p", "", "compilation database; only translation units it compiles are analyzed")
	flags.Int("jobs", 0, "number of translation units analyzed concurrently (default: GOMAXPROCS)")
	flags.Bool("pretty-print", true, "highlight diagnostics")
	flags.Bool("group", true, "fold identical diagnostics at the same position")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("json", false, "print diagnostics as JSON")

	cmd.AddCommand(newConvertCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "nullcheck:", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd.ErrOrStderr(), conf.Debug)
	slog.Debug("starting analysis", "config", conf, "dumps", len(args))

	if err := setupColor(cmd); err != nil {
		return err
	}

	analyzer := &nullcheck.Analyzer{Config: conf}
	if path, _ := cmd.Flags().GetString("compile-commands"); path != "" {
		sources, err := loader.CompileCommands(path)
		if err != nil {
			return err
		}
		slog.Debug("loaded compilation database", "path", path, "sources", len(sources))
		analyzer.Sources = sources
	}

	units, err := analyzer.Load(cmd.Context(), args)
	if err != nil {
		return err
	}
	diagnostics, analysisErr := analyzer.Analyze(cmd.Context(), units)

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	if asJSON {
		err = writeJSON(cmd.OutOrStdout(), diagnostics)
	} else {
		err = writeText(cmd.OutOrStdout(), analyzer, diagnostics)
	}
	if err != nil {
		return err
	}
	return analysisErr
}

// loadConfig builds the configuration from the defaults, the configuration file, and the flags
// set on the command line, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	conf := config.Default()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := conf.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if flags.Changed("debug") {
		conf.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("pretty-print") {
		conf.PrettyPrint, _ = flags.GetBool("pretty-print")
	}
	if flags.Changed("group") {
		conf.GroupDiagnostics, _ = flags.GetBool("group")
	}
	if flags.Changed("jobs") {
		jobs, _ := flags.GetInt("jobs")
		if jobs < 1 {
			return nil, fmt.Errorf("--jobs must be positive, got %d", jobs)
		}
		conf.Jobs = jobs
	}
	if flags.Changed("filter") {
		clauses, _ := flags.GetStringArray("filter")
		filter, err := config.ParseFilter(clauses)
		if err != nil {
			return nil, err
		}
		conf.Filter = filter
	}
	return conf, nil
}

func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		f, ok := cmd.OutOrStdout().(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
	default:
		return fmt.Errorf("invalid --color %q (want auto, on or off)", mode)
	}
	return nil
}

func writeText(w io.Writer, analyzer *nullcheck.Analyzer, diagnostics []diagnostic.Diagnostic) error {
	for _, d := range diagnostics {
		if _, err := fmt.Fprintln(w, analyzer.Format(d)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, diagnostics []diagnostic.Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []diagnostic.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diagnostics)
}

// Copyright 2025 Contriboss
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

// Package cli implements the cddtool command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/contriboss/cdd-go"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Guard   string // "target" | "intersection"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidGuardModes defines the allowed values of --predt-guard.
var ValidGuardModes = []string{cdd.GuardTarget.String(), cdd.GuardIntersection.String()}

// NewRootCommand creates the root command of cddtool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cddtool",
		Short: "cddtool - clock decision diagram workbench",
		Long: `Evaluate timed-automata reachability operators on clock decision diagrams.

States and edges are declared in a YAML model file; state arguments are
either the name of a declared state or an expression such as
"x > 5 && b0 || y < 4 && !b1".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(ValidGuardModes, opts.Guard) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid predt guard %q: must be one of %v", opts.Guard, ValidGuardModes))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Guard, "predt-guard", cdd.GuardTarget.String(), "boolean restriction of predt (target|intersection)")

	cmd.AddCommand(NewDelayCommand(opts))
	cmd.AddCommand(NewPastCommand(opts))
	cmd.AddCommand(NewPredtCommand(opts))
	cmd.AddCommand(NewTransitionCommand(opts))
	cmd.AddCommand(NewBackCommand(opts))
	cmd.AddCommand(NewTracesCommand(opts))
	cmd.AddCommand(NewDotCommand(opts))
	cmd.AddCommand(NewRandomCommand(opts))

	return cmd
}

// managerOptions translates the global flags into manager options. Debug
// records of the decomposition loops go to w when verbose is set.
func (o *RootOptions) managerOptions(w io.Writer) []cdd.Option {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	mode := cdd.GuardTarget
	if o.Guard == cdd.GuardIntersection.String() {
		mode = cdd.GuardIntersection
	}
	return []cdd.Option{cdd.WithLogger(logger), cdd.WithPredtGuardMode(mode)}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

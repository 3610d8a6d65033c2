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

package cli

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contriboss/cdd-go"
)

// TracesResult is the output of the traces command.
type TracesResult struct {
	Variables []string `json:"variables"`
	Traces    []string `json:"traces"`
}

func (r TracesResult) String() string {
	if len(r.Traces) == 0 {
		return "no traces"
	}
	return strings.Join(r.Traces, "\n")
}

// NewTracesCommand creates the traces command.
func NewTracesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "traces <state>",
		Short: "Boolean valuations of a state",
		Long: `List the paths of the boolean projection of <state>, one per line.
Column i holds the value of the i-th boolean of the model: 1, 0, or - when
the path does not test it.

Examples:
  cddtool traces -m model.yaml "a && !b || c"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(opts, cmd, args[0])
		},
	}
	addModelFlag(cmd, opts)
	return cmd
}

func runTraces(opts *ModelOptions, cmd *cobra.Command, state string) error {
	formatter := opts.formatter(cmd)
	ws, err := opts.open(cmd)
	if err != nil {
		return err
	}
	ds, err := ws.exprs(state)
	if err != nil {
		return err
	}

	m := ws.Manager
	bools := m.BoolProjection(ds[0])
	result := TracesResult{Variables: ws.Model.Bools, Traces: []string{}}
	for t := range m.AllTraces(bools, ws.Universe.NumBools()) {
		result.Traces = append(result.Traces, t.String())
	}
	return formatter.Success(result)
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	var output string

	cmd := &cobra.Command{
		Use:   "dot <state>",
		Short: "Export a state as a Graphviz graph",
		Long: `Write the diagram of <state> in dot format.

Examples:
  cddtool dot -m model.yaml init | dot -Tsvg > init.svg
  cddtool dot -m model.yaml init -o init.dot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ds, err := ws.exprs(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to create output file", err)
				}
				defer f.Close()
				w = f
			}
			if err := ws.Manager.WriteDot(w, ds[0]); err != nil {
				return WrapExitError(ExitFailure, "failed to write dot", err)
			}
			return nil
		},
	}
	addModelFlag(cmd, opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// RandomOptions holds the flags of the random command.
type RandomOptions struct {
	*RootOptions
	Clocks int
	Bools  int
	Zones  int
	Max    int32
	Seed   uint64
}

// RandomResult is the output of the random command.
type RandomResult struct {
	State  DiagramResult `json:"state"`
	Delay  DiagramResult `json:"delay"`
	Past   DiagramResult `json:"past"`
	Traces int           `json:"traces"`
}

func (r RandomResult) String() string {
	return fmt.Sprintf("state: %s\ndelay: %s\npast:  %s\ntraces: %d", r.State, r.Delay, r.Past, r.Traces)
}

// NewRandomCommand creates the random command.
func NewRandomCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RandomOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Run the operators on a random diagram",
		Long: `Build a disjunction of random zones, each guarded by a random boolean
literal, and print it with its delay and past.

Examples:
  cddtool random --clocks 3 --bools 4 --zones 5 --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRandom(opts, cmd)
		},
	}
	cmd.Flags().IntVar(&opts.Clocks, "clocks", 3, "number of clocks")
	cmd.Flags().IntVar(&opts.Bools, "bools", 4, "number of boolean variables")
	cmd.Flags().IntVar(&opts.Zones, "zones", 5, "number of random zones")
	cmd.Flags().Int32Var(&opts.Max, "max", 10, "largest constant of the zones")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	return cmd
}

func runRandom(opts *RandomOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.Clocks < 1 || opts.Bools < 1 || opts.Zones < 1 || opts.Max < 1 {
		return NewExitError(ExitCommandError, "--clocks, --bools, --zones and --max must be positive")
	}
	if opts.Max > cdd.MaxConstant {
		return NewExitError(ExitCommandError, fmt.Sprintf("--max must not exceed %d", cdd.MaxConstant))
	}

	clocks := make([]string, opts.Clocks)
	for i := range clocks {
		clocks[i] = fmt.Sprintf("x%d", i+1)
	}
	bools := make([]string, opts.Bools)
	for i := range bools {
		bools[i] = fmt.Sprintf("b%d", i)
	}
	u, err := cdd.NewUniverse(clocks, bools)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid universe", err)
	}
	m := cdd.New(u, opts.managerOptions(cmd.ErrOrStderr())...)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	state := cdd.False
	for range opts.Zones {
		z := cdd.RandomZone(rng, u.Dim(), opts.Max)
		lit := m.Literal(rng.IntN(opts.Bools), rng.IntN(2) == 0)
		state = m.Or(state, m.And(lit, m.FromZone(z)))
	}
	formatter.VerboseLog("random state: %d zones, %d nodes", m.ZoneCount(state), m.NodeCount(state))

	result := RandomResult{
		State:  describe(m, state),
		Delay:  describe(m, m.Delay(state)),
		Past:   describe(m, m.Past(state)),
		Traces: len(m.Traces(m.BoolProjection(state), u.NumBools())),
	}
	return formatter.Success(result)
}

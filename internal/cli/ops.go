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
	"errors"

	"github.com/spf13/cobra"

	"github.com/contriboss/cdd-go"
)

// ModelOptions holds the flags of commands that work on a model file.
type ModelOptions struct {
	*RootOptions
	Model string
}

func addModelFlag(cmd *cobra.Command, opts *ModelOptions) {
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "path to the YAML model (required)")
	_ = cmd.MarkFlagRequired("model")
}

func (o *ModelOptions) open(cmd *cobra.Command) (*Workspace, error) {
	model, err := LoadModel(o.Model)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load model", err)
	}
	ws, err := NewWorkspace(model, o.managerOptions(cmd.ErrOrStderr())...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid model", err)
	}
	return ws, nil
}

func (w *Workspace) exprs(args ...string) ([]cdd.Diagram, error) {
	ds := make([]cdd.Diagram, len(args))
	for i, a := range args {
		d, err := w.Expr(a)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid state", err)
		}
		ds[i] = d
	}
	return ds, nil
}

// DiagramResult is the output of the operator commands.
type DiagramResult struct {
	Diagram string `json:"diagram"`
	Kind    string `json:"kind"`
	Zones   int    `json:"zones"`
	Nodes   int    `json:"nodes"`
}

func (r DiagramResult) String() string {
	return r.Diagram
}

func describe(m *cdd.Manager, d cdd.Diagram) DiagramResult {
	return DiagramResult{
		Diagram: m.Format(d),
		Kind:    m.Kind(d).String(),
		Zones:   m.ZoneCount(d),
		Nodes:   m.NodeCount(d),
	}
}

// evaluate runs an operator and turns its precondition and iteration limit
// panics into errors. Any other panic propagates.
func evaluate(fn func() cdd.Diagram) (d cdd.Diagram, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			var precondition *cdd.PreconditionError
			var limit cdd.ErrIterationLimit
			if !errors.As(e, &precondition) && !errors.As(e, &limit) {
				panic(r)
			}
			d, err = cdd.False, WrapExitError(ExitFailure, "operator failed", e)
		}
	}()
	return fn(), nil
}

// runOperator loads the model, resolves args as states and prints the
// result of op.
func runOperator(opts *ModelOptions, cmd *cobra.Command, args []string, op func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error)) error {
	formatter := opts.formatter(cmd)
	ws, err := opts.open(cmd)
	if err != nil {
		return err
	}
	ds, err := ws.exprs(args...)
	if err != nil {
		return err
	}
	formatter.VerboseLog("model: %d clocks, %d booleans", ws.Universe.NumClocks(), ws.Universe.NumBools())

	var opErr error
	d, err := evaluate(func() cdd.Diagram {
		var r cdd.Diagram
		r, opErr = op(ws, ds)
		return r
	})
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}
	return formatter.Success(describe(ws.Manager, d))
}

// NewDelayCommand creates the delay command.
func NewDelayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	var invariant string

	cmd := &cobra.Command{
		Use:   "delay <state>",
		Short: "Time successors of a state",
		Long: `Compute the states reachable from <state> by letting time pass.

Examples:
  cddtool delay -m model.yaml init
  cddtool delay -m model.yaml "x == 0, on" --invariant "x <= 5"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(opts, cmd, args, func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error) {
				if invariant == "" {
					return w.Manager.Delay(ds[0]), nil
				}
				inv, err := w.Expr(invariant)
				if err != nil {
					return cdd.False, WrapExitError(ExitCommandError, "invalid invariant", err)
				}
				return w.Manager.DelayInvariant(ds[0], inv), nil
			})
		},
	}
	addModelFlag(cmd, opts)
	cmd.Flags().StringVar(&invariant, "invariant", "", "restrict the result to this state")
	return cmd
}

// NewPastCommand creates the past command.
func NewPastCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:           "past <state>",
		Short:         "Time predecessors of a state",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(opts, cmd, args, func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error) {
				return w.Manager.Past(ds[0]), nil
			})
		},
	}
	addModelFlag(cmd, opts)
	return cmd
}

// NewPredtCommand creates the predt command.
func NewPredtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "predt <target> <safe>",
		Short: "Safe time predecessors of a target",
		Long: `Compute the states that reach <target> by letting time pass while
staying in <safe> all along the way.

Examples:
  cddtool predt -m model.yaml "x >= 5" "y <= 3"
  cddtool predt -m model.yaml goal safe --predt-guard intersection`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(opts, cmd, args, func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error) {
				return w.Manager.Predt(ds[0], ds[1]), nil
			})
		},
	}
	addModelFlag(cmd, opts)
	return cmd
}

// NewTransitionCommand creates the transition command.
func NewTransitionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	var edge string

	cmd := &cobra.Command{
		Use:   "transition <state>",
		Short: "Successors of a state through an edge",
		Long: `Apply the guard and the resets of a model edge to <state>.

Examples:
  cddtool transition -m model.yaml init --edge press`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(opts, cmd, args, func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error) {
				guard, reset, err := w.Edge(edge)
				if err != nil {
					return cdd.False, WrapExitError(ExitCommandError, "invalid edge", err)
				}
				return w.Manager.Transition(ds[0], guard, reset), nil
			})
		},
	}
	addModelFlag(cmd, opts)
	cmd.Flags().StringVarP(&edge, "edge", "e", "", "name of the model edge (required)")
	_ = cmd.MarkFlagRequired("edge")
	return cmd
}

// NewBackCommand creates the back command.
func NewBackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{RootOptions: rootOpts}
	var (
		edge string
		past bool
	)

	cmd := &cobra.Command{
		Use:   "back <state>",
		Short: "Predecessors of a state through an edge",
		Long: `Undo the resets of a model edge on <state> and apply its guard.
The post-state of the edge is the conjunction of its reset values.

Examples:
  cddtool back -m model.yaml "x == 0, on" --edge press
  cddtool back -m model.yaml "x == 0, on" --edge press --past`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(opts, cmd, args, func(w *Workspace, ds []cdd.Diagram) (cdd.Diagram, error) {
				guard, reset, err := w.Edge(edge)
				if err != nil {
					return cdd.False, WrapExitError(ExitCommandError, "invalid edge", err)
				}
				update := w.Manager.ResetUpdate(reset)
				if past {
					return w.Manager.TransitionBackPast(ds[0], guard, update, reset), nil
				}
				return w.Manager.TransitionBack(ds[0], guard, update, reset), nil
			})
		},
	}
	addModelFlag(cmd, opts)
	cmd.Flags().StringVarP(&edge, "edge", "e", "", "name of the model edge (required)")
	_ = cmd.MarkFlagRequired("edge")
	cmd.Flags().BoolVar(&past, "past", false, "also take the time predecessors")
	return cmd
}

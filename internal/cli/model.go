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
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/contriboss/cdd-go"
)

// Model is the YAML description of a timed system:
//
//	clocks: [x, y]
//	bools: [on]
//	states:
//	  init: "x == 0, y == 0, !on"
//	edges:
//	  - name: press
//	    guard: "x >= 2"
//	    reset:
//	      clocks: {x: 0}
//	      bools: {on: true}
type Model struct {
	Clocks []string          `yaml:"clocks"`
	Bools  []string          `yaml:"bools"`
	States map[string]string `yaml:"states,omitempty"`
	Edges  []Edge            `yaml:"edges,omitempty"`
}

// Edge is a discrete transition of the model.
type Edge struct {
	Name  string    `yaml:"name"`
	Guard string    `yaml:"guard"`
	Reset EdgeReset `yaml:"reset,omitempty"`
}

// EdgeReset lists the updates of an edge by variable name.
type EdgeReset struct {
	Clocks map[string]int32 `yaml:"clocks,omitempty"`
	Bools  map[string]bool  `yaml:"bools,omitempty"`
}

// LoadModel reads and parses a model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return ParseModel(data)
}

// ParseModel parses a model with strict field validation.
func ParseModel(data []byte) (*Model, error) {
	var model Model
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&model); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateModel(&model); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &model, nil
}

func validateModel(model *Model) error {
	if len(model.Clocks) == 0 && len(model.Bools) == 0 {
		return errors.New("model declares no variables")
	}
	seen := make(map[string]bool, len(model.Edges))
	for i, e := range model.Edges {
		if e.Name == "" {
			return fmt.Errorf("edge %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate edge %q", e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// Workspace is a loaded model with its manager.
type Workspace struct {
	Model    *Model
	Universe *cdd.Universe
	Manager  *cdd.Manager
}

// NewWorkspace builds the universe and manager of a model.
func NewWorkspace(model *Model, opts ...cdd.Option) (*Workspace, error) {
	u, err := cdd.NewUniverse(model.Clocks, model.Bools)
	if err != nil {
		return nil, err
	}
	return &Workspace{Model: model, Universe: u, Manager: cdd.New(u, opts...)}, nil
}

// Expr resolves a state argument: the name of a declared state or an
// expression.
func (w *Workspace) Expr(s string) (cdd.Diagram, error) {
	if expr, ok := w.Model.States[s]; ok {
		s = expr
	}
	return w.Manager.Parse(s)
}

// Edge returns the guard and reset of the named edge.
func (w *Workspace) Edge(name string) (cdd.Diagram, cdd.Reset, error) {
	for _, e := range w.Model.Edges {
		if e.Name != name {
			continue
		}
		guard := cdd.True
		if e.Guard != "" {
			var err error
			if guard, err = w.Manager.Parse(e.Guard); err != nil {
				return cdd.False, cdd.Reset{}, fmt.Errorf("edge %q: %w", name, err)
			}
		}
		reset, err := w.reset(e.Reset)
		if err != nil {
			return cdd.False, cdd.Reset{}, fmt.Errorf("edge %q: %w", name, err)
		}
		return guard, reset, nil
	}
	return cdd.False, cdd.Reset{}, fmt.Errorf("unknown edge %q", name)
}

func (w *Workspace) reset(r EdgeReset) (cdd.Reset, error) {
	var out cdd.Reset
	for _, name := range slices.Sorted(maps.Keys(r.Clocks)) {
		x, ok := w.Universe.Clock(name)
		if !ok {
			return cdd.Reset{}, fmt.Errorf("unknown clock %q", name)
		}
		if r.Clocks[name] < 0 {
			return cdd.Reset{}, fmt.Errorf("negative reset value for clock %q", name)
		}
		if r.Clocks[name] > cdd.MaxConstant {
			return cdd.Reset{}, fmt.Errorf("reset value for clock %q exceeds %d", name, cdd.MaxConstant)
		}
		out.Clocks = append(out.Clocks, x)
		out.ClockValues = append(out.ClockValues, r.Clocks[name])
	}
	for _, name := range slices.Sorted(maps.Keys(r.Bools)) {
		l, ok := w.Universe.Bool(name)
		if !ok {
			return cdd.Reset{}, fmt.Errorf("unknown boolean %q", name)
		}
		out.Bools = append(out.Bools, l)
		out.BoolValues = append(out.BoolValues, r.Bools[name])
	}
	return out, nil
}

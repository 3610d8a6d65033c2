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

package cdd

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Unset marks a slot of a Trace whose variable is not tested on the path.
const Unset = -1

// Assignment is one slot of a Trace: the level of a variable and its value,
// 0 or 1. Both are Unset for untested variables.
type Assignment struct {
	Level int
	Value int
}

// Trace is a satisfying path of a boolean diagram. Slot i describes the
// variable at level i.
type Trace []Assignment

func newTrace(n int) Trace {
	t := make(Trace, n)
	for i := range t {
		t[i] = Assignment{Level: Unset, Value: Unset}
	}
	return t
}

// Matches reports whether the boolean valuation satisfies every set slot.
func (t Trace) Matches(bools []bool) bool {
	for _, a := range t {
		if a.Level == Unset {
			continue
		}
		if bools[a.Level] != (a.Value == 1) {
			return false
		}
	}
	return true
}

// String renders the trace as one character per slot: 1, 0 or -.
func (t Trace) String() string {
	var sb strings.Builder
	for _, a := range t {
		switch a.Value {
		case 1:
			sb.WriteByte('1')
		case 0:
			sb.WriteByte('0')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// AllTraces returns an iterator over the satisfying paths of the boolean
// diagram d, high branches first. Each yielded trace is a fresh slice of
// numVars slots.
//
// d must be boolean and test no level at or above numVars; otherwise the
// iterator panics with *PreconditionError.
func (m *Manager) AllTraces(d Diagram, numVars int) iter.Seq[Trace] {
	return func(yield func(Trace) bool) {
		m.checkTraces(d, numVars)

		type frame struct {
			d     Diagram
			trace Trace
		}
		stack := []frame{{d: d, trace: newTrace(numVars)}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.d.index() == 0 {
				// The negation parity of the path is the bit of the handle.
				if f.d == True && !yield(f.trace) {
					return
				}
				continue
			}

			level, high, low := m.cofactors(f.d)
			if int(level) >= numVars {
				panic(&PreconditionError{Op: "Traces", Msg: fmt.Sprintf("level %d outside %d variables", level, numVars)})
			}
			hi, lo := slices.Clone(f.trace), f.trace
			hi[level] = Assignment{Level: int(level), Value: 1}
			lo[level] = Assignment{Level: int(level), Value: 0}
			stack = append(stack, frame{d: low, trace: lo}, frame{d: high, trace: hi})
		}
	}
}

// Traces returns every satisfying path of the boolean diagram d. The result
// has exactly one element per trace.
func (m *Manager) Traces(d Diagram, numVars int) []Trace {
	var traces []Trace
	for t := range m.AllTraces(d, numVars) {
		traces = append(traces, t)
	}
	return slices.Clip(traces)
}

func (m *Manager) checkTraces(d Diagram, numVars int) {
	m.checkDiagram("Traces", d)
	if !m.IsBoolean(d) {
		panic(&PreconditionError{Op: "Traces", Msg: fmt.Sprintf("diagram %d holds zones", d)})
	}
	if numVars < 0 {
		panic(&PreconditionError{Op: "Traces", Msg: fmt.Sprintf("negative variable count %d", numVars)})
	}
}

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

import "fmt"

// Reset lists the updates of an edge: Clocks[i] := ClockValues[i] and
// Bools[i] := BoolValues[i]. Bools holds variable levels.
//
// Backward operators only read Clocks and Bools; the values may be left
// empty for them.
type Reset struct {
	Clocks      []int
	ClockValues []int32
	Bools       []int
	BoolValues  []bool
}

// IsEmpty reports whether the reset updates nothing.
func (r Reset) IsEmpty() bool {
	return len(r.Clocks) == 0 && len(r.Bools) == 0
}

func (m *Manager) checkReset(op string, r Reset, withValues bool) {
	if withValues || len(r.ClockValues) > 0 {
		if len(r.Clocks) != len(r.ClockValues) {
			panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("%d reset clocks but %d values", len(r.Clocks), len(r.ClockValues))})
		}
	}
	if withValues || len(r.BoolValues) > 0 {
		if len(r.Bools) != len(r.BoolValues) {
			panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("%d reset booleans but %d values", len(r.Bools), len(r.BoolValues))})
		}
	}
	for i, x := range r.Clocks {
		m.checkClock(op, x)
		if x == 0 {
			panic(&PreconditionError{Op: op, Msg: "cannot reset the reference clock"})
		}
		if i < len(r.ClockValues) && r.ClockValues[i] < 0 {
			panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("negative value %d for clock %d", r.ClockValues[i], x)})
		}
		if i < len(r.ClockValues) && r.ClockValues[i] > MaxConstant {
			panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("value %d for clock %d exceeds %d", r.ClockValues[i], x, MaxConstant)})
		}
	}
	for _, l := range r.Bools {
		m.checkLevel(op, l)
	}
}

// assignBools forgets the old values of the reset booleans and conjoins the
// new ones.
func (m *Manager) assignBools(d Diagram, r Reset) Diagram {
	d = m.Exist(d, r.Bools, nil)
	for i, l := range r.Bools {
		d = m.apply(opAnd, d, m.Literal(l, r.BoolValues[i]))
	}
	return d
}

// pinClocks applies the clock assignments of r to every component of d.
func (m *Manager) pinClocks(op string, d Diagram, r Reset) Diagram {
	res := False
	rest := m.decompose(op, m.RemoveNegative(d), func(guard Diagram, z Zone) {
		for i, x := range r.Clocks {
			z = z.UpdateValue(x, r.ClockValues[i])
		}
		res = m.apply(opOr, res, m.apply(opAnd, guard, m.FromZone(z)))
	})
	return m.apply(opOr, res, rest)
}

// Transition returns the successors of state through an edge with the given
// guard and reset: the guard is applied, the reset booleans take their new
// values and the reset clocks are pinned.
//
// Example:
//
//	// x1 > 5 && b0, then x1 := 0 and b1 := true
//	guard := m.And(m.Lower(1, LT(-5)), m.BoolVar(0))
//	next := m.Transition(state, guard, Reset{
//	    Clocks: []int{1}, ClockValues: []int32{0},
//	    Bools: []int{1}, BoolValues: []bool{true},
//	})
func (m *Manager) Transition(state, guard Diagram, r Reset) Diagram {
	m.checkDiagram("Transition", state)
	m.checkDiagram("Transition", guard)
	m.checkReset("Transition", r, true)

	d := m.assignBools(m.apply(opAnd, state, guard), r)
	if len(r.Clocks) == 0 && m.IsBoolean(d) {
		return d
	}
	return m.pinClocks("Transition", d, r)
}

// TransitionBack returns the predecessors of state through an edge. update
// constrains the states right after the edge, typically the reset values;
// the reset clocks are freed and the reset booleans forgotten before guard
// is applied.
func (m *Manager) TransitionBack(state, guard, update Diagram, r Reset) Diagram {
	m.checkDiagram("TransitionBack", state)
	m.checkDiagram("TransitionBack", guard)
	m.checkDiagram("TransitionBack", update)
	m.checkReset("TransitionBack", r, false)

	d := m.apply(opAnd, state, update)
	if d == False {
		return False
	}
	d = m.Exist(d, r.Bools, nil)
	if len(r.Clocks) == 0 || m.IsBoolean(d) {
		return m.apply(opAnd, d, guard)
	}

	res := False
	rest := m.decompose("TransitionBack", m.RemoveNegative(d), func(g Diagram, z Zone) {
		for _, x := range r.Clocks {
			z = z.FreeClock(x)
		}
		res = m.apply(opOr, res, m.apply(opAnd, g, m.FromZone(z)))
	})
	return m.apply(opAnd, m.apply(opOr, res, rest), guard)
}

// TransitionBackPast returns Past(TransitionBack(state, guard, update, r)).
func (m *Manager) TransitionBackPast(state, guard, update Diagram, r Reset) Diagram {
	return m.Past(m.TransitionBack(state, guard, update, r))
}

// ApplyReset applies r to state without a guard.
func (m *Manager) ApplyReset(state Diagram, r Reset) Diagram {
	m.checkDiagram("ApplyReset", state)
	m.checkReset("ApplyReset", r, true)

	d := m.assignBools(state, r)
	if len(r.Clocks) == 0 && m.IsBoolean(d) {
		return d
	}
	return m.pinClocks("ApplyReset", d, r)
}

// ResetUpdate returns the diagram asserting the post-state of r: every reset
// clock equals its value and every reset boolean holds its value. It is the
// usual update argument of TransitionBack.
func (m *Manager) ResetUpdate(r Reset) Diagram {
	m.checkReset("ResetUpdate", r, true)
	d := True
	for i, x := range r.Clocks {
		d = m.apply(opAnd, d, m.Interval(x, 0, r.ClockValues[i], r.ClockValues[i]))
	}
	for i, l := range r.Bools {
		d = m.apply(opAnd, d, m.Literal(l, r.BoolValues[i]))
	}
	return d
}

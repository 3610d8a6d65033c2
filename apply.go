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

// And returns the states in both diagrams.
func (m *Manager) And(a, b Diagram) Diagram {
	m.checkDiagram("And", a)
	m.checkDiagram("And", b)
	return m.apply(opAnd, a, b)
}

// Or returns the states in either diagram.
func (m *Manager) Or(a, b Diagram) Diagram {
	m.checkDiagram("Or", a)
	m.checkDiagram("Or", b)
	return m.apply(opOr, a, b)
}

// Ands returns the conjunction of ds; True when ds is empty.
func (m *Manager) Ands(ds ...Diagram) Diagram {
	r := True
	for _, d := range ds {
		r = m.And(r, d)
		if r == False {
			return False
		}
	}
	return r
}

// Ors returns the disjunction of ds; False when ds is empty.
func (m *Manager) Ors(ds ...Diagram) Diagram {
	r := False
	for _, d := range ds {
		r = m.Or(r, d)
		if r == True {
			return True
		}
	}
	return r
}

// Diff returns the states of a that are not in b.
func (m *Manager) Diff(a, b Diagram) Diagram {
	return m.And(a, m.Not(b))
}

// Xor returns the states in exactly one of the diagrams.
func (m *Manager) Xor(a, b Diagram) Diagram {
	return m.Or(m.Diff(a, b), m.Diff(b, a))
}

// Not returns the complement of d. Clock valuations with negative values
// belong to the complement unless d holds them.
func (m *Manager) Not(d Diagram) Diagram {
	m.checkDiagram("Not", d)
	return m.not(d)
}

func (m *Manager) not(d Diagram) Diagram {
	n := m.node(d)
	if n.boolean {
		return d ^ 1
	}
	if r, ok := m.cache.lookupNot(d); ok {
		return r
	}
	var r Diagram
	if n.fed != nil {
		r = m.mkLeaf(n.fed.Complement())
	} else {
		r = m.mk(n.level, m.not(n.high), m.not(n.low))
	}
	m.cache.storeNot(d, r)
	return r
}

// apply computes a binary operation by Shannon expansion on the topmost
// level of both operands. Two zone-terminals meet in federation algebra.
func (m *Manager) apply(op opCode, a, b Diagram) Diagram {
	switch op {
	case opAnd:
		switch {
		case a == False || b == False:
			return False
		case a == True:
			return b
		case b == True, a == b:
			return a
		case a == b^1:
			return False
		}
	case opOr:
		switch {
		case a == True || b == True:
			return True
		case a == False:
			return b
		case b == False, a == b:
			return a
		case a == b^1:
			return True
		}
	}

	if a > b {
		a, b = b, a
	}
	key := applyKey{op: op, a: a, b: b}
	if r, ok := m.cache.lookupApply(key); ok {
		return r
	}

	var r Diagram
	na, nb := m.node(a), m.node(b)
	if na.fed != nil && nb.fed != nil {
		if op == opAnd {
			r = m.mkLeaf(na.fed.Intersection(*nb.fed))
		} else {
			r = m.mkLeaf(na.fed.Union(*nb.fed))
		}
	} else {
		la, ah, al := m.cofactors(a)
		lb, bh, bl := m.cofactors(b)
		top := min(la, lb)
		if la != top {
			ah, al = a, a
		}
		if lb != top {
			bh, bl = b, b
		}
		r = m.mk(top, m.apply(op, ah, bh), m.apply(op, al, bl))
	}
	m.cache.storeApply(key, r)
	return r
}

// Equal reports whether a and b are the same node. Purely boolean diagrams
// are canonical, so for them Equal and Equivalent agree.
func (m *Manager) Equal(a, b Diagram) bool {
	return a == b
}

// Equivalent reports whether a and b denote the same set of states.
func (m *Manager) Equivalent(a, b Diagram) bool {
	if a == b {
		return true
	}
	return m.Diff(a, b) == False && m.Diff(b, a) == False
}

// IsFalse reports whether d holds no state. Every empty diagram is False.
func (m *Manager) IsFalse(d Diagram) bool {
	return d == False
}

// IsSubset reports whether every state of a is in b.
func (m *Manager) IsSubset(a, b Diagram) bool {
	return m.Diff(a, b) == False
}

// ContainsZone reports whether d holds every valuation of z, for every
// boolean valuation.
func (m *Manager) ContainsZone(d Diagram, z Zone) bool {
	return m.IsSubset(m.FromZone(z), d)
}

// RemoveNegative restricts d to non-negative clock valuations.
func (m *Manager) RemoveNegative(d Diagram) Diagram {
	return m.And(d, m.nonNeg)
}

// Exist existentially quantifies the boolean variables at the given levels
// and the given clocks out of d. Quantified clocks become unconstrained,
// negative values included; the clock dimensions themselves remain.
func (m *Manager) Exist(d Diagram, bools []int, clocks []int) Diagram {
	m.checkDiagram("Exist", d)
	for _, x := range clocks {
		m.checkClock("Exist", x)
		if x == 0 {
			panic(&PreconditionError{Op: "Exist", Msg: "cannot quantify the reference clock"})
		}
	}
	if len(clocks) > 0 {
		d = m.mapLeaves(d, func(f Federation) Federation {
			for _, x := range clocks {
				f = f.Unconstrain(x)
			}
			return f
		})
	}
	if len(bools) == 0 {
		return d
	}

	set := make(map[int32]bool, len(bools))
	deepest := int32(-1)
	for _, l := range bools {
		m.checkLevel("Exist", l)
		set[int32(l)] = true
		deepest = max(deepest, int32(l))
	}
	seen := make(map[Diagram]Diagram)
	var rec func(Diagram) Diagram
	rec = func(d Diagram) Diagram {
		level := m.level(d)
		if level > deepest {
			return d
		}
		if r, ok := seen[d]; ok {
			return r
		}
		_, high, low := m.cofactors(d)
		hr, lr := rec(high), rec(low)
		var r Diagram
		if set[level] {
			r = m.apply(opOr, hr, lr)
		} else {
			r = m.mk(level, hr, lr)
		}
		seen[d] = r
		return r
	}
	return rec(d)
}

// mapLeaves rebuilds d with fn applied to every zone-terminal. fn must map
// the empty and the universal federation to themselves, so that purely
// boolean sub-diagrams are kept as they are.
func (m *Manager) mapLeaves(d Diagram, fn func(Federation) Federation) Diagram {
	seen := make(map[Diagram]Diagram)
	var rec func(Diagram) Diagram
	rec = func(d Diagram) Diagram {
		n := m.node(d)
		if n.boolean {
			return d
		}
		if r, ok := seen[d]; ok {
			return r
		}
		var r Diagram
		if n.fed != nil {
			r = m.mkLeaf(fn(*n.fed))
		} else {
			r = m.mk(n.level, rec(n.high), rec(n.low))
		}
		seen[d] = r
		return r
	}
	return rec(d)
}

// BoolProjection returns the boolean valuations for which d holds some
// clock valuation.
func (m *Manager) BoolProjection(d Diagram) Diagram {
	m.checkDiagram("BoolProjection", d)
	return m.mapLeaves(d, func(f Federation) Federation {
		if f.IsEmpty() {
			return f
		}
		return UniversalFederation(f.Dim())
	})
}

// Reduce rebuilds d bottom-up and collapses every node whose children denote
// the same set. Reduce is idempotent: Reduce(Reduce(d)) == Reduce(d).
func (m *Manager) Reduce(d Diagram) Diagram {
	m.checkDiagram("Reduce", d)
	return m.reduce(d)
}

func (m *Manager) reduce(d Diagram) Diagram {
	n := m.node(d)
	if n.boolean || n.fed != nil {
		return d
	}
	if r, ok := m.cache.lookupReduce(d); ok {
		return r
	}
	level := n.level
	high, low := m.reduce(n.high), m.reduce(n.low)
	var r Diagram
	if m.Equivalent(high, low) {
		r = high
	} else {
		r = m.mk(level, high, low)
	}
	m.cache.storeReduce(d, r)
	if r != d {
		m.cache.storeReduce(r, r)
	}
	return r
}

// Leaf returns the federation of a zone-terminal.
func (m *Manager) Leaf(d Diagram) (Federation, bool) {
	n := m.node(d)
	if n.fed == nil {
		return Federation{}, false
	}
	return *n.fed, true
}

// Node returns the level and children of a boolean-test node, with the
// negation bit of d applied to the children.
func (m *Manager) Node(d Diagram) (level int, high, low Diagram) {
	if m.IsTerminal(d) {
		panic(&PreconditionError{Op: "Node", Msg: fmt.Sprintf("diagram %d is a terminal", d)})
	}
	l, h, lo := m.cofactors(d)
	return int(l), h, lo
}

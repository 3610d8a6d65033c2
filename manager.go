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
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Diagram is a handle on a hybrid decision diagram owned by a Manager.
//
// The handle packs a node index and a negation bit: d>>1 is the node, d&1
// complements its meaning. Negation bits only ever point at purely boolean
// sub-diagrams, so every handle denotes one set of (boolean valuation, clock
// valuation) pairs and a purely boolean diagram has a single representation.
//
// Handles are plain values: copy them freely. They stay valid for the
// lifetime of the Manager that created them.
type Diagram uint32

const (
	// True is the diagram of every state.
	True Diagram = 0
	// False is the diagram without any state.
	False Diagram = 1
)

func (d Diagram) index() uint32 {
	return uint32(d) >> 1
}

func (d Diagram) negated() bool {
	return d&1 == 1
}

// Kind classifies a diagram by the information it holds.
type Kind int

const (
	// KindConstant is True or False.
	KindConstant Kind = iota
	// KindZone is a single zone-terminal: clock constraints, no boolean test.
	KindZone
	// KindBoolean is a diagram over boolean variables only.
	KindBoolean
	// KindHybrid tests boolean variables above zone-terminals.
	KindHybrid
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindZone:
		return "zone"
	case KindBoolean:
		return "boolean"
	case KindHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// terminalLevel orders constants and zone-terminals below every boolean level.
const terminalLevel = math.MaxInt32

type node struct {
	level   int32
	high    Diagram
	low     Diagram
	fed     *Federation
	boolean bool
}

type nodeKey struct {
	level     int32
	high, low Diagram
}

// Manager owns the node arena of a family of diagrams over one Universe.
//
// Nodes are hash-consed: equal boolean nodes and zone-terminals with equal
// normalized federations share one index. The arena only grows; it is
// released with the Manager.
//
// A Manager is not safe for concurrent use. Confine it to one goroutine and
// pass results to other goroutines as formatted values or traces.
type Manager struct {
	universe *Universe
	opts     Options
	logger   *slog.Logger

	nodes  []node
	unique map[nodeKey]Diagram
	leaves map[string]Diagram

	cache  memo
	nonNeg Diagram
	debug  bool
}

// New creates a Manager over the universe u.
//
// Example:
//
//	u := cdd.MustUniverse([]string{"x", "y"}, []string{"a"})
//	m := cdd.New(u, cdd.WithMaxSteps(10000))
func New(u *Universe, opts ...Option) *Manager {
	if u == nil {
		panic(&PreconditionError{Op: "New", Msg: "nil universe"})
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = discardLogger()
	}
	m := &Manager{
		universe: u,
		opts:     o,
		logger:   logger,
		nodes:    []node{{level: terminalLevel, high: True, low: True, boolean: true}},
		unique:   make(map[nodeKey]Diagram),
		leaves:   make(map[string]Diagram),
		cache:    newMemo(o.CacheLimit),
	}
	m.debug = logger.Enabled(context.Background(), slog.LevelDebug)
	m.nonNeg = m.FromZone(NonNegativeZone(u.Dim()))
	return m
}

// Universe returns the variables of the manager.
func (m *Manager) Universe() *Universe {
	return m.universe
}

// Options returns the configuration of the manager.
func (m *Manager) Options() Options {
	return m.opts
}

func (m *Manager) node(d Diagram) *node {
	return &m.nodes[d.index()]
}

// mk returns the node testing level with the given children.
func (m *Manager) mk(level int32, high, low Diagram) Diagram {
	if high == low {
		return high
	}
	hb, lb := m.node(high).boolean, m.node(low).boolean
	if hb && lb && high.negated() {
		return m.mkRaw(level, high^1, low^1, true) ^ 1
	}
	return m.mkRaw(level, high, low, hb && lb)
}

func (m *Manager) mkRaw(level int32, high, low Diagram, boolean bool) Diagram {
	key := nodeKey{level: level, high: high, low: low}
	if d, ok := m.unique[key]; ok {
		return d
	}
	d := Diagram(uint32(len(m.nodes)) << 1)
	m.nodes = append(m.nodes, node{level: level, high: high, low: low, boolean: boolean})
	m.unique[key] = d
	return d
}

// mkLeaf returns the zone-terminal of f, or a constant when f is empty or
// universal.
func (m *Manager) mkLeaf(f Federation) Diagram {
	if f.IsEmpty() {
		return False
	}
	if f.IsUniversal() {
		return True
	}
	key := f.Key()
	if d, ok := m.leaves[key]; ok {
		return d
	}
	d := Diagram(uint32(len(m.nodes)) << 1)
	m.nodes = append(m.nodes, node{level: terminalLevel, high: d, low: d, fed: &f})
	m.leaves[key] = d
	return d
}

// cofactors returns the level of d and its children with the negation bit
// of d pushed onto them. Terminals are their own cofactors.
func (m *Manager) cofactors(d Diagram) (int32, Diagram, Diagram) {
	n := m.node(d)
	if n.level == terminalLevel {
		return terminalLevel, d, d
	}
	neg := d & 1
	return n.level, n.high ^ neg, n.low ^ neg
}

func (m *Manager) level(d Diagram) int32 {
	return m.node(d).level
}

func (m *Manager) checkDiagram(op string, d Diagram) {
	if d.index() >= uint32(len(m.nodes)) {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("diagram %d not owned by this manager", d)})
	}
	if d.negated() && !m.node(d).boolean {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("diagram %d is a negated hybrid handle", d)})
	}
}

func (m *Manager) checkLevel(op string, level int) {
	if level < 0 || level >= m.universe.NumBools() {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("boolean level %d out of range [0,%d)", level, m.universe.NumBools())})
	}
}

func (m *Manager) checkClock(op string, clock int) {
	if clock < 0 || clock >= m.universe.Dim() {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("clock %d out of range [0,%d)", clock, m.universe.Dim())})
	}
}

// FromZone returns the diagram of the zone, for every boolean valuation.
func (m *Manager) FromZone(z Zone) Diagram {
	if z.Dim() != m.universe.Dim() {
		panic(&PreconditionError{Op: "FromZone", Msg: fmt.Sprintf("zone dimension %d, want %d", z.Dim(), m.universe.Dim())})
	}
	return m.mkLeaf(NewFederation(z.Dim(), z))
}

// FromFederation returns the diagram of the federation, for every boolean
// valuation.
func (m *Manager) FromFederation(f Federation) Diagram {
	if f.Dim() != m.universe.Dim() && !f.IsEmpty() {
		panic(&PreconditionError{Op: "FromFederation", Msg: fmt.Sprintf("federation dimension %d, want %d", f.Dim(), m.universe.Dim())})
	}
	return m.mkLeaf(f)
}

// BoolVar returns the diagram of the states where the variable at level
// is true.
func (m *Manager) BoolVar(level int) Diagram {
	m.checkLevel("BoolVar", level)
	return m.mk(int32(level), True, False)
}

// NBoolVar returns the diagram of the states where the variable at level
// is false.
func (m *Manager) NBoolVar(level int) Diagram {
	return m.BoolVar(level) ^ 1
}

// Literal returns BoolVar(level) when value is set and NBoolVar otherwise.
func (m *Manager) Literal(level int, value bool) Diagram {
	if value {
		return m.BoolVar(level)
	}
	return m.NBoolVar(level)
}

// Constraint returns the diagram of x_i - x_j ≺ b. Negative clock values are
// not excluded.
func (m *Manager) Constraint(i, j int, b Bound) Diagram {
	m.checkClock("Constraint", i)
	m.checkClock("Constraint", j)
	return m.FromZone(UniversalZone(m.universe.Dim()).Constrain(i, j, b))
}

// Upper returns the diagram of x ≺ b.
func (m *Manager) Upper(x int, b Bound) Diagram {
	return m.Constraint(x, 0, b)
}

// Lower returns the diagram of -x ≺ b, that is x ≻ -b.Value().
func (m *Manager) Lower(x int, b Bound) Diagram {
	return m.Constraint(0, x, b)
}

// Interval returns the diagram of lo <= x_i - x_j <= hi.
func (m *Manager) Interval(i, j int, lo, hi int32) Diagram {
	m.checkClock("Interval", i)
	m.checkClock("Interval", j)
	z := UniversalZone(m.universe.Dim()).Constrain(i, j, LE(hi)).Constrain(j, i, LE(-lo))
	return m.FromZone(z)
}

// Kind classifies d.
func (m *Manager) Kind(d Diagram) Kind {
	n := m.node(d)
	switch {
	case d.index() == 0:
		return KindConstant
	case n.fed != nil:
		return KindZone
	case n.boolean:
		return KindBoolean
	default:
		return KindHybrid
	}
}

// IsTerminal reports whether d is a constant or a zone-terminal.
func (m *Manager) IsTerminal(d Diagram) bool {
	return m.node(d).level == terminalLevel
}

// IsBoolean reports whether d holds no clock information. Constants are
// boolean.
func (m *Manager) IsBoolean(d Diagram) bool {
	return m.node(d).boolean
}

// HasZones reports whether some zone-terminal is reachable from d.
func (m *Manager) HasZones(d Diagram) bool {
	return !m.node(d).boolean
}

// ContainsState reports whether the state with boolean valuation bools and
// clock valuation point belongs to d. point[0] is the reference clock.
func (m *Manager) ContainsState(d Diagram, bools []bool, point []float64) bool {
	if len(bools) != m.universe.NumBools() {
		panic(&PreconditionError{Op: "ContainsState", Msg: fmt.Sprintf("%d boolean values, want %d", len(bools), m.universe.NumBools())})
	}
	for {
		n := m.node(d)
		switch {
		case n.fed != nil:
			return n.fed.ContainsPoint(point)
		case d.index() == 0:
			return d == True
		}
		level, high, low := m.cofactors(d)
		if bools[level] {
			d = high
		} else {
			d = low
		}
	}
}

// walk visits every node reachable from d once, children before parents.
func (m *Manager) walk(d Diagram, visit func(idx uint32, n *node)) {
	visited := make(map[uint32]bool)
	var rec func(Diagram)
	rec = func(d Diagram) {
		idx := d.index()
		if visited[idx] {
			return
		}
		visited[idx] = true
		n := m.node(d)
		if n.level != terminalLevel {
			rec(n.high)
			rec(n.low)
		}
		visit(idx, n)
	}
	rec(d)
}

// ZoneCount returns the number of zones held by the distinct zone-terminals
// reachable from d. Every step of a decomposition loop decreases it.
func (m *Manager) ZoneCount(d Diagram) int {
	count := 0
	m.walk(d, func(_ uint32, n *node) {
		if n.fed != nil {
			count += n.fed.Len()
		}
	})
	return count
}

// NodeCount returns the number of distinct nodes reachable from d,
// terminals included.
func (m *Manager) NodeCount(d Diagram) int {
	count := 0
	m.walk(d, func(uint32, *node) { count++ })
	return count
}

// ArenaSize returns the number of nodes allocated by the manager.
func (m *Manager) ArenaSize() int {
	return len(m.nodes)
}

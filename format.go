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
	"io"
	"slices"
	"strings"
)

// Format renders d as a disjunction of paths, one per satisfying path of the
// boolean layer, each followed by the clock constraints of its terminal:
//
//	b0 && !b1 && x>5 || !b0
//
// Paths are listed high branch first. False renders as "false".
func (m *Manager) Format(d Diagram) string {
	m.checkDiagram("Format", d)
	names := m.universe.ClockNames()

	var parts []string
	var rec func(d Diagram, lits []string)
	rec = func(d Diagram, lits []string) {
		n := m.node(d)
		switch {
		case d.index() == 0:
			if d == True {
				parts = append(parts, conjoin(lits, "true"))
			}
			return
		case n.fed != nil:
			f := n.fed.Format(names)
			if n.fed.Len() > 1 {
				f = "(" + f + ")"
			}
			parts = append(parts, conjoin(lits, f))
			return
		}
		level, high, low := m.cofactors(d)
		name := m.universe.BoolName(int(level))
		lits = slices.Clip(lits)
		rec(high, append(lits, name))
		rec(low, append(lits, "!"+name))
	}
	rec(d, nil)

	if len(parts) == 0 {
		return "false"
	}
	return strings.Join(parts, " || ")
}

func conjoin(lits []string, tail string) string {
	switch {
	case len(lits) == 0:
		return tail
	case tail == "true":
		return strings.Join(lits, " && ")
	default:
		return strings.Join(lits, " && ") + " && " + tail
	}
}

// WriteDot writes d to w in Graphviz dot format. High edges are solid, low
// edges dotted and edges carrying a negation dashed.
func (m *Manager) WriteDot(w io.Writer, d Diagram) error {
	m.checkDiagram("WriteDot", d)
	names := m.universe.ClockNames()

	lines := []string{"digraph cdd {", `  root [shape=point];`}
	m.walk(d, func(idx uint32, n *node) {
		id := fmt.Sprintf("n%d", idx)
		switch {
		case idx == 0:
			lines = append(lines, fmt.Sprintf(`  %s [shape=box,label="true"];`, id))
		case n.fed != nil:
			// One zone per line; zone formats hold no quotes.
			label := strings.ReplaceAll(n.fed.Format(names), " || ", `\n`)
			lines = append(lines, fmt.Sprintf(`  %s [shape=box,label="%s"];`, id, label))
		default:
			lines = append(lines, fmt.Sprintf(`  %s [label=%q];`, id, m.universe.BoolName(int(n.level))))
			lines = append(lines, dotEdge(id, n.high, "solid"), dotEdge(id, n.low, "dotted"))
		}
	})
	lines = append(lines, dotEdge("root", d, "solid"), "}")

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func dotEdge(from string, to Diagram, style string) string {
	if to.negated() {
		style = "dashed"
	}
	return fmt.Sprintf("  %s -> n%d [style=%s];", from, to.index(), style)
}

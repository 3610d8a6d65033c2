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
)

// Extraction is one boolean-guarded zone component peeled off a diagram.
//
// For the input d:
//
//	Or(And(BDDPart, FromZone(DBM)), CDDPart) ≡ d
//
// BDDPart is purely boolean, and CDDPart holds strictly fewer zones than d
// as measured by ZoneCount.
type Extraction struct {
	// BDDPart is the set of boolean valuations for which d holds all of DBM.
	BDDPart Diagram
	// CDDPart is d with DBM removed from the zone-terminals listing it.
	CDDPart Diagram
	// DBM is the extracted zone, owned by the caller.
	DBM Zone
}

// ExtractBDDAndDBM peels one component off d. The zone is the first zone of
// the first zone-terminal in high-before-low order, so extraction is
// deterministic. d must hold zones; extracting from a boolean diagram
// panics with *PreconditionError.
func (m *Manager) ExtractBDDAndDBM(d Diagram) Extraction {
	m.checkDiagram("ExtractBDDAndDBM", d)
	if m.IsBoolean(d) {
		panic(&PreconditionError{Op: "ExtractBDDAndDBM", Msg: fmt.Sprintf("diagram %d holds no zone", d)})
	}
	z := m.firstZone(d)
	return Extraction{
		BDDPart: m.guardOf(d, z),
		CDDPart: m.reduce(m.mapLeaves(d, func(f Federation) Federation {
			if f.HasMember(z) {
				return f.without(z)
			}
			return f
		})),
		DBM: z,
	}
}

// ExtractBDD returns the guard and the zone of the next component of d.
func (m *Manager) ExtractBDD(d Diagram) (Diagram, Zone) {
	ext := m.ExtractBDDAndDBM(d)
	return ext.BDDPart, ext.DBM
}

// ExtractDBM returns the residual and the zone of the next component of d.
func (m *Manager) ExtractDBM(d Diagram) (Diagram, Zone) {
	ext := m.ExtractBDDAndDBM(d)
	return ext.CDDPart, ext.DBM
}

func (m *Manager) firstZone(d Diagram) Zone {
	n := m.node(d)
	for n.fed == nil {
		if !m.node(n.high).boolean {
			d = n.high
		} else {
			d = n.low
		}
		n = m.node(d)
	}
	return n.fed.zones[0]
}

// guardOf returns the boolean valuations under which d includes z.
func (m *Manager) guardOf(d Diagram, z Zone) Diagram {
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
		switch {
		case n.fed != nil && n.fed.Contains(z):
			r = True
		case n.fed != nil:
			r = False
		default:
			r = m.mk(n.level, rec(n.high), rec(n.low))
		}
		seen[d] = r
		return r
	}
	return rec(d)
}

// decompose calls fn on every component of d, in extraction order, and
// returns the boolean remainder left once no zone is left.
func (m *Manager) decompose(op string, d Diagram, fn func(guard Diagram, z Zone)) Diagram {
	return m.extractAll(op, d, func(guard Diagram, z Zone) bool {
		fn(guard, z)
		return true
	})
}

// extractAll runs the extraction loop of op on d until no zone is left or
// yield returns false, and returns what is left of d. It panics with
// ErrIterationLimit past MaxSteps iterations.
func (m *Manager) extractAll(op string, d Diagram, yield func(guard Diagram, z Zone) bool) Diagram {
	steps := 0
	for m.HasZones(d) {
		steps++
		if m.opts.MaxSteps > 0 && steps > m.opts.MaxSteps {
			panic(ErrIterationLimit{Op: op, Steps: m.opts.MaxSteps})
		}
		ext := m.ExtractBDDAndDBM(d)
		if m.debug {
			m.logger.Debug("decompose", "op", op, "iteration", steps, "zones", m.ZoneCount(ext.CDDPart))
		}
		if !yield(ext.BDDPart, ext.DBM) {
			return ext.CDDPart
		}
		d = ext.CDDPart
	}
	return d
}

// Components returns an iterator over the (guard, zone) components of d.
// The boolean remainder, if not False, is not yielded. Like the operators,
// the iterator panics with ErrIterationLimit past MaxSteps components.
//
// Example:
//
//	for guard, z := range m.Components(d) {
//	    fmt.Println(m.Format(guard), z.Format(u.ClockNames()))
//	}
func (m *Manager) Components(d Diagram) iter.Seq2[Diagram, Zone] {
	return func(yield func(Diagram, Zone) bool) {
		m.checkDiagram("Components", d)
		m.extractAll("Components", d, yield)
	}
}

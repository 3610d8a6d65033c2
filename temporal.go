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

// Delay returns the states reachable from state by letting time pass, each
// under its own boolean guard. Negative clock valuations are dropped first,
// so a boolean diagram comes back restricted to non-negative clocks. True is
// returned as is.
func (m *Manager) Delay(state Diagram) Diagram {
	m.checkDiagram("Delay", state)
	if state == True {
		return True
	}
	res := False
	rest := m.decompose("Delay", m.RemoveNegative(state), func(guard Diagram, z Zone) {
		res = m.apply(opOr, res, m.apply(opAnd, guard, m.FromZone(z.Up())))
	})
	return m.apply(opOr, res, rest)
}

// Past returns the states from which state is reachable by letting time
// pass. Like Delay, it drops negative clock valuations first and returns
// True as is.
func (m *Manager) Past(state Diagram) Diagram {
	m.checkDiagram("Past", state)
	if state == True {
		return True
	}
	res := False
	rest := m.decompose("Past", m.RemoveNegative(state), func(guard Diagram, z Zone) {
		res = m.apply(opOr, res, m.apply(opAnd, guard, m.FromZone(z.Down())))
	})
	return m.apply(opOr, res, rest)
}

// DelayInvariant returns Delay(state) restricted to invar.
func (m *Manager) DelayInvariant(state, invar Diagram) Diagram {
	return m.And(m.Delay(state), invar)
}

// Predt returns the states from which some delay reaches target while every
// intermediate state, the end point included, stays in safe.
//
// The forbidden region is the non-negative part of the complement of safe.
// Each component of target is refined against the zones of the forbidden
// region under every boolean valuation; where the forbidden region is empty,
// the plain past of the component is kept, restricted as selected by
// WithPredtGuardMode.
func (m *Manager) Predt(target, safe Diagram) Diagram {
	m.checkDiagram("Predt", target)
	m.checkDiagram("Predt", safe)

	bad := m.RemoveNegative(m.not(safe))
	if bad == False {
		return m.Past(target)
	}
	badSupport := m.BoolProjection(bad)
	open := m.not(badSupport)
	safeSupport := True
	if m.opts.PredtGuardMode == GuardIntersection {
		safeSupport = m.BoolProjection(safe)
	}

	res := False
	rest := m.decompose("Predt", m.RemoveNegative(target), func(guard Diagram, z Zone) {
		past := m.FromZone(z.Down())
		restrict := m.apply(opAnd, guard, safeSupport)
		covered := m.apply(opAnd, guard, badSupport)
		if covered == False {
			res = m.apply(opOr, res, m.apply(opAnd, restrict, past))
			return
		}
		free := m.apply(opAnd, m.apply(opAnd, restrict, open), past)
		avoid := m.apply(opAnd, covered, m.avoiding(bad, z))
		res = m.apply(opOr, res, m.apply(opOr, free, avoid))
	})
	// The remainder of a non-negative target is False.
	return m.apply(opOr, res, m.apply(opAnd, rest, m.not(bad)))
}

// avoiding maps every zone-terminal F of bad to predt(z, F). Boolean parts
// of bad map to False; callers restrict the result to the support of bad.
func (m *Manager) avoiding(bad Diagram, z Zone) Diagram {
	target := NewFederation(z.Dim(), z)
	seen := make(map[Diagram]Diagram)
	var rec func(Diagram) Diagram
	rec = func(d Diagram) Diagram {
		n := m.node(d)
		if n.boolean {
			return False
		}
		if r, ok := seen[d]; ok {
			return r
		}
		var r Diagram
		if n.fed != nil {
			r = m.mkLeaf(target.Predt(*n.fed))
		} else {
			r = m.mk(n.level, rec(n.high), rec(n.low))
		}
		seen[d] = r
		return r
	}
	return rec(bad)
}

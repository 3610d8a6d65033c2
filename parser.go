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
	"strconv"
	"strings"
)

// Parse parses a state expression over the universe of the manager.
//
// Supported syntax:
//   - Constants: true, false
//   - Boolean variables: b, !b
//   - Clock bounds: x < 5, x <= 5, x > 5, x >= 5, x == 5
//   - Clock differences: x - y <= 2 (same operators)
//   - Conjunctions with && or ,
//   - Disjunctions with ||, binding weaker than conjunction
//
// Examples:
//
//	m.Parse("x > 5 && b0 || y < 4 && !b1")
//	m.Parse("x - y <= 2, y >= 1")
//	m.Parse("true")
//
// Clock constraints do not exclude negative clock values.
func (m *Manager) Parse(s string) (Diagram, error) {
	input := s
	s = strings.TrimSpace(s)
	if s == "" {
		return False, &ParseError{Input: input, Msg: "empty expression"}
	}

	result := False
	for _, orPart := range strings.Split(s, "||") {
		orPart = strings.TrimSpace(orPart)
		if orPart == "" {
			return False, &ParseError{Input: input, Msg: "empty disjunct"}
		}

		current := True
		for _, andPart := range splitConjuncts(orPart) {
			atom := strings.TrimSpace(andPart)
			if atom == "" {
				return False, &ParseError{Input: input, Msg: "empty conjunct"}
			}
			d, err := m.parseAtom(input, atom)
			if err != nil {
				return False, err
			}
			current = m.And(current, d)
		}
		result = m.Or(result, current)
	}
	return result, nil
}

// MustParse is like Parse but panics on error.
func (m *Manager) MustParse(s string) Diagram {
	d, err := m.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func splitConjuncts(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "&&", ","), ",")
}

var comparisons = []string{"<=", ">=", "==", "<", ">"}

func (m *Manager) parseAtom(input, atom string) (Diagram, error) {
	switch atom {
	case "true":
		return True, nil
	case "false":
		return False, nil
	}

	if name, ok := strings.CutPrefix(atom, "!"); ok {
		level, found := m.universe.Bool(strings.TrimSpace(name))
		if !found {
			return False, &ParseError{Input: input, Atom: atom, Msg: "unknown boolean variable"}
		}
		return m.NBoolVar(level), nil
	}

	op, at := "", -1
	for _, c := range comparisons {
		if i := strings.Index(atom, c); i >= 0 && (at < 0 || i < at || i == at && len(c) > len(op)) {
			op, at = c, i
		}
	}
	if at < 0 {
		level, found := m.universe.Bool(atom)
		if !found {
			return False, &ParseError{Input: input, Atom: atom, Msg: "unknown boolean variable"}
		}
		return m.BoolVar(level), nil
	}

	lhs := strings.TrimSpace(atom[:at])
	rhs := strings.TrimSpace(atom[at+len(op):])
	c, err := strconv.ParseInt(rhs, 10, 64)
	if err != nil {
		return False, &ParseError{Input: input, Atom: atom, Msg: "invalid constant"}
	}
	if c > MaxConstant || c < -MaxConstant {
		return False, &ParseError{Input: input, Atom: atom, Msg: "constant out of range"}
	}

	i, j := 0, 0
	left, right, diff := strings.Cut(lhs, "-")
	var ok bool
	if i, ok = m.universe.Clock(strings.TrimSpace(left)); !ok {
		return False, &ParseError{Input: input, Atom: atom, Msg: "unknown clock"}
	}
	if diff {
		if j, ok = m.universe.Clock(strings.TrimSpace(right)); !ok {
			return False, &ParseError{Input: input, Atom: atom, Msg: "unknown clock"}
		}
	}

	v := int32(c)
	switch op {
	case "<":
		return m.Constraint(i, j, LT(v)), nil
	case "<=":
		return m.Constraint(i, j, LE(v)), nil
	case ">":
		return m.Constraint(j, i, LT(-v)), nil
	case ">=":
		return m.Constraint(j, i, LE(-v)), nil
	default:
		return m.Interval(i, j, v, v), nil
	}
}

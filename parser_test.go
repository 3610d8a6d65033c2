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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tests := []struct {
		input string
		want  Diagram
	}{
		{"true", True},
		{"false", False},
		{"b0", m.BoolVar(0)},
		{"!b1", m.NBoolVar(1)},
		{"! b1", m.NBoolVar(1)},
		{"x < 5", m.Constraint(1, 0, LT(5))},
		{"x<=5", m.Constraint(1, 0, LE(5))},
		{"x > 5", m.Constraint(0, 1, LT(-5))},
		{"y >= 2", m.Constraint(0, 2, LE(-2))},
		{"x == 3", m.Interval(1, 0, 3, 3)},
		{"x - y <= 2", m.Constraint(1, 2, LE(2))},
		{"y - x > -1", m.Constraint(1, 2, LT(1))},
		{"b0 && !b1", m.And(m.BoolVar(0), m.NBoolVar(1))},
		{"x < 5, y >= 2", m.And(m.Constraint(1, 0, LT(5)), m.Constraint(0, 2, LE(-2)))},
		{"b0 || b1 && b2", m.Or(m.BoolVar(0), m.And(m.BoolVar(1), m.BoolVar(2)))},
		{"  b3  ", m.BoolVar(3)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := m.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tests := []struct {
		input string
		atom  string
	}{
		{"", ""},
		{"   ", ""},
		{"|| b0", ""},
		{"b0 && ", ""},
		{"b0 &&", ""},
		{"b0 ,, b1", ""},
		{", b0", ""},
		{"b0 && && b1", ""},
		{"x < 1500000000", "x < 1500000000"},
		{"x - y >= -99999999999", "x - y >= -99999999999"},
		{"q", "q"},
		{"!zz", "!zz"},
		{"x < abc", "x < abc"},
		{"x <", "x <"},
		{"z <= 3", "z <= 3"},
		{"x - w <= 3", "x - w <= 3"},
		{"x ~ 3", "x ~ 3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := m.Parse(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.input, pe.Input)
			assert.Equal(t, tt.atom, pe.Atom)
		})
	}

	assert.Panics(t, func() { m.MustParse("nope") })
}

func TestParseConstantRange(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	d, err := m.Parse(fmt.Sprintf("x <= %d", MaxConstant))
	require.NoError(t, err)
	assert.Equal(t, m.Constraint(1, 0, LE(MaxConstant)), d)

	d, err = m.Parse(fmt.Sprintf("x - y > %d", -MaxConstant))
	require.NoError(t, err)
	assert.Equal(t, m.Constraint(2, 1, LT(MaxConstant)), d)

	_, err = m.Parse(fmt.Sprintf("x <= %d", MaxConstant+1))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "constant out of range", pe.Msg)
}

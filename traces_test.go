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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracesSinglePath(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	d := m.Ands(m.BoolVar(0), m.NBoolVar(1), m.BoolVar(2))
	traces := m.Traces(d, 3)
	require.Len(t, traces, 1)
	assert.Equal(t, Trace{{0, 1}, {1, 0}, {2, 1}}, traces[0])
	assert.Equal(t, "101", traces[0].String())

	wide := m.Traces(d, 5)
	require.Len(t, wide, 1)
	assert.Equal(t, "101--", wide[0].String())
	assert.Equal(t, Assignment{Level: Unset, Value: Unset}, wide[0][4])
}

func TestTracesOrderAndSize(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	d := m.Or(m.And(m.BoolVar(0), m.NBoolVar(1)), m.BoolVar(2))
	traces := m.Traces(d, 3)
	got := make([]string, len(traces))
	for i, tr := range traces {
		got[i] = tr.String()
	}
	assert.Equal(t, []string{"111", "10-", "0-1"}, got)
	assert.Equal(t, len(traces), cap(traces))
}

func TestTracesConstants(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	traces := m.Traces(True, 0)
	require.Len(t, traces, 1)
	assert.Empty(t, traces[0])

	assert.Len(t, m.Traces(True, 2), 1)
	assert.Equal(t, "--", m.Traces(True, 2)[0].String())
	assert.Empty(t, m.Traces(False, 3))
}

func TestTracesCoverSatisfyingValuations(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	d := m.Or(m.Xor(m.BoolVar(0), m.BoolVar(2)), m.And(m.BoolVar(1), m.NBoolVar(3)))
	traces := m.Traces(d, 4)
	for _, v := range valuations(4) {
		sat := m.ContainsState(d, v, point(0, 0))
		matched := 0
		for _, tr := range traces {
			if tr.Matches(v) {
				matched++
			}
		}
		if sat {
			assert.Equal(t, 1, matched, "valuation %v", v)
		} else {
			assert.Zero(t, matched, "valuation %v", v)
		}
	}
}

func TestAllTracesStopsEarly(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	d := m.Or(m.BoolVar(0), m.BoolVar(1))
	n := 0
	for tr := range m.AllTraces(d, 4) {
		n++
		tr[0] = Assignment{}
		break
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, "1---", m.Traces(d, 4)[0].String())
}

func TestTracesPreconditions(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	hybrid := m.And(m.BoolVar(0), m.Upper(1, LE(3)))
	requirePrecondition(t, func() { m.Traces(hybrid, 4) })
	requirePrecondition(t, func() { m.Traces(m.Upper(1, LE(3)), 4) })
	requirePrecondition(t, func() { m.Traces(True, -1) })
	requirePrecondition(t, func() { m.Traces(m.BoolVar(3), 2) })
}

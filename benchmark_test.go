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
	"testing"
)

// Benchmark scenarios for the reachability operators

func benchManager(b *testing.B, clocks, bools int) *Manager {
	b.Helper()
	cs := make([]string, clocks)
	for i := range cs {
		cs[i] = fmt.Sprintf("x%d", i+1)
	}
	bs := make([]string, bools)
	for i := range bs {
		bs[i] = fmt.Sprintf("b%d", i)
	}
	return New(MustUniverse(cs, bs))
}

// BenchmarkDelayRandom measures Delay on unions of random guarded zones
func BenchmarkDelayRandom(b *testing.B) {
	for _, zones := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("zones=%d", zones), func(b *testing.B) {
			m := benchManager(b, 3, 4)
			state := randomState(m, newRand(uint64(zones)), zones)
			b.ResetTimer()
			for b.Loop() {
				m.Delay(state)
			}
		})
	}
}

// BenchmarkPredt measures the safe time predecessors of a guarded target
func BenchmarkPredt(b *testing.B) {
	m := benchManager(b, 2, 2)
	target := m.MustParse("x1 >= 4 && x1 <= 6 && b0 || x2 > 3 && !b0")
	safe := m.MustParse("x2 <= 5 || b1")

	b.ResetTimer()
	for b.Loop() {
		m.Predt(target, safe)
	}
}

// BenchmarkTransition measures a guarded edge that resets one clock
func BenchmarkTransition(b *testing.B) {
	m := benchManager(b, 3, 4)
	guard := m.MustParse("x1 > 5 && b0 || x2 < 4 && !b1")
	reset := Reset{Clocks: []int{1}, ClockValues: []int32{0}, Bools: []int{2}, BoolValues: []bool{true}}
	state := m.Delay(m.MustParse("x1 == 0, x2 == 0, x3 == 0"))

	b.ResetTimer()
	for b.Loop() {
		m.Transition(state, guard, reset)
	}
}

// BenchmarkApplyAnd measures conjunction of random diagrams without caching
// across iterations
func BenchmarkApplyAnd(b *testing.B) {
	m := benchManager(b, 3, 6)
	rng := newRand(1)
	a, c := randomState(m, rng, 16), randomState(m, rng, 16)

	b.ResetTimer()
	for b.Loop() {
		m.ClearCaches()
		m.And(a, c)
	}
}

// BenchmarkTraces measures trace enumeration of a dense boolean diagram
func BenchmarkTraces(b *testing.B) {
	m := benchManager(b, 1, 12)
	d := False
	for i := 0; i+1 < 12; i += 2 {
		d = m.Or(d, m.Xor(m.BoolVar(i), m.BoolVar(i+1)))
	}

	b.ResetTimer()
	for b.Loop() {
		for range m.AllTraces(d, 12) {
		}
	}
}

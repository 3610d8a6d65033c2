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
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePrecondition fails unless fn panics with a *PreconditionError.
func requirePrecondition(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var pe *PreconditionError
		require.True(t, errors.As(err, &pe), "panic %v is not a PreconditionError", err)
	}()
	fn()
}

// newTestManager returns a manager over clocks x, y and booleans b0..b3.
func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	u, err := NewUniverse([]string{"x", "y"}, []string{"b0", "b1", "b2", "b3"})
	require.NoError(t, err)
	return New(u, opts...)
}

// point builds a clock valuation with the reference clock at index 0.
func point(values ...float64) []float64 {
	return append([]float64{0}, values...)
}

// valuations enumerates every boolean valuation over n variables.
func valuations(n int) [][]bool {
	out := make([][]bool, 0, 1<<n)
	for mask := range 1 << n {
		v := make([]bool, n)
		for i := range v {
			v[i] = mask&(1<<i) != 0
		}
		out = append(out, v)
	}
	return out
}

// randomState builds a union of random non-negative zones, each guarded by
// a random conjunction of up to two literals.
func randomState(m *Manager, rng *rand.Rand, zones int) Diagram {
	d := False
	nb := m.Universe().NumBools()
	for range zones {
		guard := True
		for range rng.IntN(3) {
			guard = m.And(guard, m.Literal(rng.IntN(nb), rng.IntN(2) == 0))
		}
		z := RandomZone(rng, m.Universe().Dim(), 8)
		d = m.Or(d, m.And(guard, m.FromZone(z)))
	}
	return d
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

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
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Zone is a difference bound matrix: the set of clock valuations v with
// v(x_i) - v(x_j) ≺ bound(i, j) for every pair of clocks. Index 0 is the
// reference clock, whose value is always zero, so row 0 holds lower bounds
// and column 0 holds upper bounds.
//
// Zones are values. Every operation returns a new, closed zone and leaves its
// receiver untouched, so a zone obtained from an extraction is owned by the
// caller.
//
// Examples, with dim = 3 (clocks x1, x2):
//   - UniversalZone(3) contains every valuation, negative ones included
//   - NonNegativeZone(3) is x1 >= 0 && x2 >= 0
//   - NonNegativeZone(3).Constrain(1, 0, LE(5)) is 0 <= x1 <= 5 && x2 >= 0
type Zone struct {
	dim    int
	bounds []Bound
}

// UniversalZone returns the zone without any constraint.
func UniversalZone(dim int) Zone {
	if dim < 1 {
		panic(&PreconditionError{Op: "UniversalZone", Msg: fmt.Sprintf("dimension %d < 1", dim)})
	}
	z := Zone{dim: dim, bounds: make([]Bound, dim*dim)}
	for i := range z.bounds {
		z.bounds[i] = Infinity
	}
	for i := 0; i < dim; i++ {
		z.bounds[i*dim+i] = LEZero
	}
	return z
}

// NonNegativeZone returns the zone where every clock is >= 0.
func NonNegativeZone(dim int) Zone {
	z := UniversalZone(dim)
	for j := 1; j < dim; j++ {
		z.bounds[j] = LEZero
	}
	return z
}

// EmptyZone returns a zone with no valuation.
func EmptyZone(dim int) Zone {
	z := UniversalZone(dim)
	z.bounds[0] = LTZero
	return z
}

// Dim returns the number of clocks including the reference clock.
func (z Zone) Dim() int {
	return z.dim
}

// At returns the bound on x_i - x_j.
func (z Zone) At(i, j int) Bound {
	return z.bounds[i*z.dim+j]
}

func (z Zone) clone() Zone {
	return Zone{dim: z.dim, bounds: slices.Clone(z.bounds)}
}

// IsEmpty reports whether the zone contains no valuation.
func (z Zone) IsEmpty() bool {
	return z.dim == 0 || z.bounds[0] < LEZero
}

// IsNonNegative reports whether every clock is bounded below by zero.
func (z Zone) IsNonNegative() bool {
	for j := 1; j < z.dim; j++ {
		if z.bounds[j] > LEZero {
			return false
		}
	}
	return true
}

// close computes the canonical form in place with Floyd-Warshall and marks
// the zone empty when a negative cycle appears.
func (z *Zone) close() {
	n := z.dim
	b := z.bounds
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := b[i*n+k]
			if i == k || ik == Infinity {
				continue
			}
			for j := 0; j < n; j++ {
				if kj := b[k*n+j]; kj != Infinity {
					if s := ik.Add(kj); s < b[i*n+j] {
						b[i*n+j] = s
					}
				}
			}
		}
		if b[k*n+k] < LEZero {
			b[0] = LTZero
			return
		}
	}
	for i := 0; i < n; i++ {
		if b[i*n+i] < LEZero {
			b[0] = LTZero
			return
		}
	}
}

// closeOne restores canonical form after tightening the single entry (i, j).
func (z *Zone) closeOne(i, j int) {
	n := z.dim
	b := z.bounds
	bij := b[i*n+j]
	if bij.Add(b[j*n+i]) < LEZero {
		b[0] = LTZero
		return
	}
	for k := 0; k < n; k++ {
		ki := b[k*n+i]
		if ki == Infinity {
			continue
		}
		kij := ki.Add(bij)
		for l := 0; l < n; l++ {
			if jl := b[j*n+l]; jl != Infinity {
				if s := kij.Add(jl); s < b[k*n+l] {
					b[k*n+l] = s
				}
			}
		}
	}
}

// Constrain returns the zone intersected with x_i - x_j ≺ bound.
func (z Zone) Constrain(i, j int, bound Bound) Zone {
	z.checkClock("Constrain", i)
	z.checkClock("Constrain", j)
	switch {
	case z.IsEmpty():
		return z
	case i == j:
		if bound < LEZero {
			return EmptyZone(z.dim)
		}
		return z
	case bound >= z.At(i, j):
		return z
	}
	out := z.clone()
	out.bounds[i*z.dim+j] = bound
	out.closeOne(i, j)
	if out.IsEmpty() {
		return EmptyZone(z.dim)
	}
	return out
}

// Intersect returns the valuations in both zones.
func (z Zone) Intersect(other Zone) Zone {
	z.checkDim("Intersect", other)
	if z.IsEmpty() || other.IsEmpty() {
		return EmptyZone(z.dim)
	}
	out := z.clone()
	changed := false
	for k, b := range other.bounds {
		if b < out.bounds[k] {
			out.bounds[k] = b
			changed = true
		}
	}
	if !changed {
		return z
	}
	out.close()
	if out.IsEmpty() {
		return EmptyZone(z.dim)
	}
	return out
}

// IsSubset reports whether every valuation of z is in other. Both zones
// are closed, so the test is entry-wise.
func (z Zone) IsSubset(other Zone) bool {
	z.checkDim("IsSubset", other)
	if z.IsEmpty() {
		return true
	}
	if other.IsEmpty() {
		return false
	}
	for k, b := range z.bounds {
		if b > other.bounds[k] {
			return false
		}
	}
	return true
}

// Equal reports whether the two zones denote the same set.
func (z Zone) Equal(other Zone) bool {
	if z.dim != other.dim {
		return false
	}
	if z.IsEmpty() || other.IsEmpty() {
		return z.IsEmpty() == other.IsEmpty()
	}
	return slices.Equal(z.bounds, other.bounds)
}

// Up lets time pass: every upper bound of a clock is removed.
func (z Zone) Up() Zone {
	if z.IsEmpty() {
		return z
	}
	out := z.clone()
	for i := 1; i < z.dim; i++ {
		out.bounds[i*z.dim] = Infinity
	}
	return out
}

// Down computes the time predecessors, assuming non-negative clocks: every
// lower bound is relaxed as far as the clock differences and x >= 0 allow.
func (z Zone) Down() Zone {
	if !z.IsNonNegative() {
		z = z.Intersect(NonNegativeZone(z.dim))
	}
	if z.IsEmpty() {
		return z
	}
	out := z.clone()
	n := z.dim
	for j := 1; j < n; j++ {
		low := LEZero
		for i := 1; i < n; i++ {
			low = minBound(low, out.bounds[i*n+j])
		}
		out.bounds[j] = low
	}
	return out
}

// UpdateValue pins clock x to the value v.
func (z Zone) UpdateValue(x int, v int32) Zone {
	z.checkClock("UpdateValue", x)
	if x == 0 {
		panic(&PreconditionError{Op: "UpdateValue", Msg: "cannot reset the reference clock"})
	}
	if z.IsEmpty() {
		return z
	}
	out := z.clone()
	n := z.dim
	b := out.bounds
	b[x*n] = LE(v)
	b[x] = LE(-v)
	for i := 1; i < n; i++ {
		if i == x {
			continue
		}
		b[x*n+i] = b[x*n].Add(b[i])
		b[i*n+x] = b[i*n].Add(b[x])
	}
	return out
}

// FreeClock removes every constraint on clock x except x >= 0.
func (z Zone) FreeClock(x int) Zone {
	z.checkClock("FreeClock", x)
	if x == 0 {
		panic(&PreconditionError{Op: "FreeClock", Msg: "cannot free the reference clock"})
	}
	if z.IsEmpty() {
		return z
	}
	out := z.clone()
	n := z.dim
	for i := 0; i < n; i++ {
		if i == x {
			continue
		}
		out.bounds[x*n+i] = Infinity
		out.bounds[i*n+x] = out.bounds[i*n]
	}
	return out
}

// Unconstrain projects clock x away entirely, negative values included.
func (z Zone) Unconstrain(x int) Zone {
	z.checkClock("Unconstrain", x)
	if x == 0 || z.IsEmpty() {
		return z
	}
	out := z.clone()
	n := z.dim
	for i := 0; i < n; i++ {
		if i == x {
			continue
		}
		out.bounds[x*n+i] = Infinity
		out.bounds[i*n+x] = Infinity
	}
	return out
}

// Hull returns the smallest zone containing both zones.
func (z Zone) Hull(other Zone) Zone {
	z.checkDim("Hull", other)
	switch {
	case z.IsEmpty():
		return other
	case other.IsEmpty():
		return z
	}
	out := z.clone()
	for k, b := range other.bounds {
		out.bounds[k] = maxBound(out.bounds[k], b)
	}
	return out
}

// Subtract returns pairwise disjoint zones whose union is z minus other.
func (z Zone) Subtract(other Zone) []Zone {
	z.checkDim("Subtract", other)
	if z.IsEmpty() {
		return nil
	}
	if z.Intersect(other).IsEmpty() {
		return []Zone{z}
	}
	var pieces []Zone
	rest := z
	n := z.dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b := other.At(i, j)
			if i == j || b == Infinity || b >= rest.At(i, j) {
				continue
			}
			if piece := rest.Constrain(j, i, b.Negate()); !piece.IsEmpty() {
				pieces = append(pieces, piece)
			}
			rest = rest.Constrain(i, j, b)
			if rest.IsEmpty() {
				return pieces
			}
		}
	}
	return pieces
}

// ContainsPoint reports whether the valuation is in the zone. point is
// indexed by clock; point[0] is ignored and taken as zero.
func (z Zone) ContainsPoint(point []float64) bool {
	if z.IsEmpty() {
		return false
	}
	if len(point) != z.dim {
		panic(&PreconditionError{Op: "ContainsPoint", Msg: fmt.Sprintf("point has %d entries, want %d", len(point), z.dim)})
	}
	val := func(i int) float64 {
		if i == 0 {
			return 0
		}
		return point[i]
	}
	for i := 0; i < z.dim; i++ {
		for j := 0; j < z.dim; j++ {
			b := z.At(i, j)
			if i == j || b == Infinity {
				continue
			}
			d := val(i) - val(j)
			c := float64(b.Value())
			if d > c || b.IsStrict() && d == c {
				return false
			}
		}
	}
	return true
}

// Key returns a compact string identifying the zone, used for hash-consing
// and for the deterministic order of federations.
func (z Zone) Key() string {
	if z.IsEmpty() {
		return "empty"
	}
	buf := make([]byte, 4*len(z.bounds))
	for k, b := range z.bounds {
		binary.BigEndian.PutUint32(buf[4*k:], uint32(b)^0x80000000)
	}
	return string(buf)
}

// Format renders the non-trivial constraints of the zone, naming clock i
// with names[i]. Missing names fall back to x<i>.
func (z Zone) Format(names []string) string {
	if z.IsEmpty() {
		return "false"
	}
	name := func(i int) string {
		if i < len(names) && names[i] != "" {
			return names[i]
		}
		return fmt.Sprintf("x%d", i)
	}
	var parts []string
	for i := 1; i < z.dim; i++ {
		if low := z.At(0, i); low != LEZero && low != Infinity {
			op := ">="
			if low.IsStrict() {
				op = ">"
			}
			parts = append(parts, fmt.Sprintf("%s%s%d", name(i), op, -low.Value()))
		}
		if up := z.At(i, 0); up != Infinity {
			op := "<="
			if up.IsStrict() {
				op = "<"
			}
			parts = append(parts, fmt.Sprintf("%s%s%d", name(i), op, up.Value()))
		}
	}
	for i := 1; i < z.dim; i++ {
		for j := 1; j < z.dim; j++ {
			b := z.At(i, j)
			if i == j || b == Infinity || b >= z.At(i, 0).Add(z.At(0, j)) {
				continue
			}
			op := "<="
			if b.IsStrict() {
				op = "<"
			}
			parts = append(parts, fmt.Sprintf("%s-%s%s%d", name(i), name(j), op, b.Value()))
		}
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " && ")
}

// String formats the zone with default clock names.
func (z Zone) String() string {
	return z.Format(nil)
}

// RandomZone generates a non-empty, non-negative zone whose finite bounds
// lie in [0, maxConst]. It is meant for demos and benchmarks.
func RandomZone(rng *rand.Rand, dim int, maxConst int32) Zone {
	for {
		z := NonNegativeZone(dim)
		for i := 1; i < dim; i++ {
			lo := rng.Int32N(maxConst + 1)
			hi := lo + rng.Int32N(maxConst+1)
			z = z.Constrain(0, i, LE(-lo)).Constrain(i, 0, LE(hi))
			if rng.IntN(2) == 0 {
				for j := 1; j < dim; j++ {
					if j != i {
						z = z.Constrain(i, j, LE(rng.Int32N(maxConst+1)))
					}
				}
			}
		}
		if !z.IsEmpty() {
			return z
		}
	}
}

func (z Zone) checkClock(op string, i int) {
	if i < 0 || i >= z.dim {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("clock %d out of range [0,%d)", i, z.dim)})
	}
}

func (z Zone) checkDim(op string, other Zone) {
	if z.dim != other.dim {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("dimension mismatch %d != %d", z.dim, other.dim)})
	}
}

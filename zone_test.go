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

var xy = []string{"0", "x", "y"}

// interval returns lo <= x <= hi over non-negative clocks of dimension dim.
func interval(dim, x int, lo, hi int32) Zone {
	return NonNegativeZone(dim).Constrain(0, x, LE(-lo)).Constrain(x, 0, LE(hi))
}

func TestZoneConstructors(t *testing.T) {
	t.Parallel()

	u := UniversalZone(3)
	assert.False(t, u.IsEmpty())
	assert.False(t, u.IsNonNegative())
	assert.True(t, u.ContainsPoint(point(-1, 4)))

	nn := NonNegativeZone(3)
	assert.True(t, nn.IsNonNegative())
	assert.True(t, nn.ContainsPoint(point(0, 2)))
	assert.False(t, nn.ContainsPoint(point(0, -1)))
	assert.True(t, nn.IsSubset(u))

	e := EmptyZone(3)
	assert.True(t, e.IsEmpty())
	assert.True(t, e.IsSubset(nn))
	assert.False(t, e.ContainsPoint(point(0, 0)))
}

func TestZoneConstrain(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).Constrain(1, 0, LE(5))
	assert.True(t, z.ContainsPoint(point(5, 0)))
	assert.False(t, z.ContainsPoint(point(5.5, 0)))

	strict := NonNegativeZone(3).Constrain(1, 0, LT(5))
	assert.False(t, strict.ContainsPoint(point(5, 0)))
	assert.True(t, strict.ContainsPoint(point(4.9, 0)))
	assert.True(t, strict.IsSubset(z))
	assert.False(t, z.IsSubset(strict))

	// x <= 3 and x >= 5
	assert.True(t, z.Constrain(1, 0, LE(3)).Constrain(0, 1, LE(-5)).IsEmpty())

	// closure derives y <= 7 from x <= 5 and y - x <= 2
	derived := z.Constrain(2, 1, LE(2))
	assert.Equal(t, LE(7), derived.At(2, 0))
}

func TestZoneIntersect(t *testing.T) {
	t.Parallel()

	a := interval(2, 1, 0, 5)
	b := interval(2, 1, 3, 10)
	got := a.Intersect(b)
	assert.True(t, got.Equal(interval(2, 1, 3, 5)))
	assert.True(t, a.Intersect(interval(2, 1, 6, 7)).IsEmpty())
}

func TestZoneUp(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).UpdateValue(1, 1).UpdateValue(2, 1)
	up := z.Up()
	assert.True(t, up.ContainsPoint(point(1, 1)))
	assert.True(t, up.ContainsPoint(point(3, 3)))
	assert.False(t, up.ContainsPoint(point(3, 2)))
	assert.False(t, up.ContainsPoint(point(0.5, 0.5)))
	assert.True(t, z.IsSubset(up))
}

func TestZoneDown(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).UpdateValue(1, 3).UpdateValue(2, 5)
	down := z.Down()
	assert.True(t, down.ContainsPoint(point(3, 5)))
	assert.True(t, down.ContainsPoint(point(1, 3)))
	assert.True(t, down.ContainsPoint(point(0, 2)))
	assert.False(t, down.ContainsPoint(point(0, 1)))
	assert.False(t, down.ContainsPoint(point(-1, 1)))
	assert.True(t, down.IsNonNegative())
}

func TestZoneDownOfNegativeZoneStaysNonNegative(t *testing.T) {
	t.Parallel()

	z := UniversalZone(2).Constrain(1, 0, LE(4))
	down := z.Down()
	assert.True(t, down.IsNonNegative())
	assert.True(t, down.Equal(interval(2, 1, 0, 4)))
}

func TestZoneUpdateValue(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).Constrain(1, 0, LE(5)).UpdateValue(1, 0)
	assert.True(t, z.ContainsPoint(point(0, 7)))
	assert.False(t, z.ContainsPoint(point(1, 7)))
	assert.Equal(t, LE(0), z.At(1, 0))
	assert.Equal(t, LE(0), z.At(0, 1))

	requirePrecondition(t, func() { z.UpdateValue(0, 1) })
	requirePrecondition(t, func() { z.UpdateValue(3, 1) })
}

func TestZoneFreeClock(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).UpdateValue(1, 2).UpdateValue(2, 3)
	free := z.FreeClock(1)
	assert.True(t, free.ContainsPoint(point(100, 3)))
	assert.True(t, free.ContainsPoint(point(0, 3)))
	assert.False(t, free.ContainsPoint(point(0, 4)))
	assert.False(t, free.ContainsPoint(point(-1, 3)))

	requirePrecondition(t, func() { z.FreeClock(0) })
}

func TestZoneUnconstrain(t *testing.T) {
	t.Parallel()

	z := NonNegativeZone(3).UpdateValue(1, 2).UpdateValue(2, 3)
	free := z.Unconstrain(1)
	assert.True(t, free.ContainsPoint(point(-1, 3)))
	assert.True(t, free.ContainsPoint(point(50, 3)))
	assert.False(t, free.ContainsPoint(point(0, 4)))
}

func TestZoneHull(t *testing.T) {
	t.Parallel()

	a := interval(2, 1, 0, 2)
	b := interval(2, 1, 5, 7)
	h := a.Hull(b)
	assert.True(t, h.Equal(interval(2, 1, 0, 7)))
	assert.True(t, a.Hull(EmptyZone(2)).Equal(a))
	assert.True(t, EmptyZone(2).Hull(b).Equal(b))
}

func TestZoneSubtract(t *testing.T) {
	t.Parallel()

	a := interval(2, 1, 0, 10)
	b := interval(2, 1, 3, 5)
	pieces := a.Subtract(b)
	require.Len(t, pieces, 2)

	for i := range pieces {
		for j := i + 1; j < len(pieces); j++ {
			assert.True(t, pieces[i].Intersect(pieces[j]).IsEmpty(), "pieces overlap")
		}
	}
	in := func(v float64) bool {
		for _, p := range pieces {
			if p.ContainsPoint([]float64{0, v}) {
				return true
			}
		}
		return false
	}
	for _, v := range []float64{0, 2, 2.99, 5.01, 6, 10} {
		assert.True(t, in(v), "%v should remain", v)
	}
	for _, v := range []float64{3, 4, 5, 10.5} {
		assert.False(t, in(v), "%v should be removed", v)
	}

	assert.Empty(t, b.Subtract(a))
	disjoint := a.Subtract(interval(2, 1, 20, 30))
	require.Len(t, disjoint, 1)
	assert.True(t, disjoint[0].Equal(a))
	assert.Empty(t, EmptyZone(2).Subtract(a))
}

func TestZoneKey(t *testing.T) {
	t.Parallel()

	a := interval(3, 1, 1, 4)
	b := NonNegativeZone(3).Constrain(1, 0, LE(4)).Constrain(0, 1, LE(-1))
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), interval(3, 1, 1, 5).Key())
	assert.Equal(t, EmptyZone(3).Key(), a.Constrain(1, 0, LE(0)).Key())
}

func TestZoneFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		zone Zone
		want string
	}{
		{"non-negative", NonNegativeZone(3), "true"},
		{"universal", UniversalZone(3), "true"},
		{"empty", EmptyZone(3), "false"},
		{"upper", NonNegativeZone(3).Constrain(1, 0, LE(5)), "x<=5"},
		{"strict interval", NonNegativeZone(3).Constrain(0, 1, LT(-2)).Constrain(1, 0, LE(5)), "x>2 && x<=5"},
		{"difference", NonNegativeZone(3).Constrain(1, 2, LT(3)), "x-y<3"},
		{"pinned", NonNegativeZone(3).UpdateValue(2, 4), "y>=4 && y<=4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.zone.Format(xy))
		})
	}
	assert.Equal(t, "x1<=5", NonNegativeZone(2).Constrain(1, 0, LE(5)).String())
}

func TestRandomZone(t *testing.T) {
	t.Parallel()

	rng := newRand(7)
	for range 50 {
		z := RandomZone(rng, 4, 10)
		assert.False(t, z.IsEmpty())
		assert.True(t, z.IsNonNegative())
		for i := 1; i < 4; i++ {
			assert.LessOrEqual(t, z.At(0, i), LEZero)
		}
	}
}

func TestZoneDimensionMismatch(t *testing.T) {
	t.Parallel()

	requirePrecondition(t, func() { NonNegativeZone(2).Intersect(NonNegativeZone(3)) })
	requirePrecondition(t, func() { NonNegativeZone(2).Subtract(NonNegativeZone(3)) })
	requirePrecondition(t, func() { NonNegativeZone(2).ContainsPoint([]float64{0, 1, 2}) })
}

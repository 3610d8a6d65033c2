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
	"iter"
	"slices"
	"strings"
)

// Federation is a finite union of zones over the same clocks.
//
// Zones are stored in normalized form: non-empty, none included in another,
// no pair whose hull equals their union, and sorted by Key. Normalization
// does not give a unique representation for every set (unions of zones have
// no canonical form), but it is deterministic, which is what hash-consing of
// zone-terminals relies on.
//
// Example:
//
//	a := NonNegativeZone(2).Constrain(1, 0, LE(5))  // x <= 5
//	b := NonNegativeZone(2).Constrain(0, 1, LE(-3)) // x >= 3
//	f := NewFederation(2, a, b)                     // one zone: x >= 0
type Federation struct {
	dim   int
	zones []Zone
}

// NewFederation creates a normalized federation from zones.
func NewFederation(dim int, zones ...Zone) Federation {
	for _, z := range zones {
		if z.dim != dim {
			panic(&PreconditionError{Op: "NewFederation", Msg: "zone dimension mismatch"})
		}
	}
	return Federation{dim: dim, zones: normalizeZones(slices.Clone(zones))}
}

// EmptyFederation returns the federation without any valuation.
func EmptyFederation(dim int) Federation {
	return Federation{dim: dim}
}

// UniversalFederation returns the federation of all valuations, negative
// clock values included.
func UniversalFederation(dim int) Federation {
	return Federation{dim: dim, zones: []Zone{UniversalZone(dim)}}
}

// Dim returns the number of clocks including the reference clock.
func (f Federation) Dim() int {
	return f.dim
}

// Len returns the number of zones.
func (f Federation) Len() int {
	return len(f.zones)
}

// Zones returns an iterator over the zones in key order.
func (f Federation) Zones() iter.Seq[Zone] {
	return func(yield func(Zone) bool) {
		for _, z := range f.zones {
			if !yield(z) {
				return
			}
		}
	}
}

// IsEmpty returns true if the federation contains no valuation.
func (f Federation) IsEmpty() bool {
	return len(f.zones) == 0
}

// IsUniversal returns true if the federation contains every valuation.
func (f Federation) IsUniversal() bool {
	if len(f.zones) == 1 && f.zones[0].Equal(UniversalZone(f.dim)) {
		return true
	}
	return !f.IsEmpty() && UniversalFederation(f.dim).Subtract(f).IsEmpty()
}

// Union returns the valuations in either federation.
func (f Federation) Union(other Federation) Federation {
	zones := make([]Zone, 0, len(f.zones)+len(other.zones))
	zones = append(zones, f.zones...)
	zones = append(zones, other.zones...)
	return Federation{dim: f.dim, zones: normalizeZones(zones)}
}

// Intersection returns the valuations in both federations.
func (f Federation) Intersection(other Federation) Federation {
	if f.IsEmpty() || other.IsEmpty() {
		return EmptyFederation(f.dim)
	}
	result := make([]Zone, 0, len(f.zones))
	for _, a := range f.zones {
		for _, b := range other.zones {
			if z := a.Intersect(b); !z.IsEmpty() {
				result = append(result, z)
			}
		}
	}
	return Federation{dim: f.dim, zones: normalizeZones(result)}
}

// IntersectZone restricts the federation to a single zone.
func (f Federation) IntersectZone(z Zone) Federation {
	return f.Intersection(Federation{dim: f.dim, zones: []Zone{z}})
}

// Subtract returns the valuations of f that are not in other.
func (f Federation) Subtract(other Federation) Federation {
	result := slices.Clone(f.zones)
	for _, b := range other.zones {
		next := result[:0:0]
		for _, a := range result {
			next = append(next, a.Subtract(b)...)
		}
		result = next
		if len(result) == 0 {
			break
		}
	}
	return Federation{dim: f.dim, zones: normalizeZones(result)}
}

// Complement returns every valuation, negative ones included, that is not
// in the federation.
func (f Federation) Complement() Federation {
	if f.IsEmpty() {
		return UniversalFederation(f.dim)
	}
	return UniversalFederation(f.dim).Subtract(f)
}

// Contains reports whether every valuation of the zone is in the federation.
func (f Federation) Contains(z Zone) bool {
	for _, m := range f.zones {
		if z.IsSubset(m) {
			return true
		}
	}
	return Federation{dim: f.dim, zones: []Zone{z}}.Subtract(f).IsEmpty()
}

// HasMember reports whether the zone is one of the normalized zones of f.
func (f Federation) HasMember(z Zone) bool {
	for _, m := range f.zones {
		if m.Equal(z) {
			return true
		}
	}
	return false
}

// without returns the federation with the member z dropped.
func (f Federation) without(z Zone) Federation {
	zones := make([]Zone, 0, len(f.zones))
	for _, m := range f.zones {
		if !m.Equal(z) {
			zones = append(zones, m)
		}
	}
	return Federation{dim: f.dim, zones: zones}
}

// IsSubset returns true if all valuations of f are also in other.
func (f Federation) IsSubset(other Federation) bool {
	return f.Subtract(other).IsEmpty()
}

// Equivalent reports whether the two federations denote the same set.
func (f Federation) Equivalent(other Federation) bool {
	if f.Key() == other.Key() {
		return true
	}
	return f.IsSubset(other) && other.IsSubset(f)
}

// ContainsPoint reports whether the valuation belongs to some zone.
func (f Federation) ContainsPoint(point []float64) bool {
	for _, z := range f.zones {
		if z.ContainsPoint(point) {
			return true
		}
	}
	return false
}

// Up applies the time-successor transform to each zone.
func (f Federation) Up() Federation {
	return f.mapZones(Zone.Up)
}

// Down applies the time-predecessor transform to each zone.
func (f Federation) Down() Federation {
	return f.mapZones(Zone.Down)
}

// Unconstrain projects clock x away from each zone.
func (f Federation) Unconstrain(x int) Federation {
	return f.mapZones(func(z Zone) Zone { return z.Unconstrain(x) })
}

func (f Federation) mapZones(fn func(Zone) Zone) Federation {
	zones := make([]Zone, 0, len(f.zones))
	for _, z := range f.zones {
		zones = append(zones, fn(z))
	}
	return Federation{dim: f.dim, zones: normalizeZones(zones)}
}

// Predt returns the valuations from which some delay reaches f without
// passing through bad on the way, the end point included:
//
//	predt(G, B) = (G↓ \ B↓) ∪ ((G ∩ B↓) \ B)↓
//
// for convex G and B. Over unions, predt distributes as a union over the
// zones of f and as an intersection over the zones of bad.
func (f Federation) Predt(bad Federation) Federation {
	if bad.IsEmpty() {
		return f.Down()
	}
	result := EmptyFederation(f.dim)
	for _, g := range f.zones {
		good := Federation{dim: f.dim, zones: []Zone{g}}
		acc := good.Down()
		for _, b := range bad.zones {
			acc = acc.Intersection(predtZone(g, b))
			if acc.IsEmpty() {
				break
			}
		}
		result = result.Union(acc)
	}
	return result
}

func predtZone(g, b Zone) Federation {
	dim := g.dim
	gDown := Federation{dim: dim, zones: []Zone{g.Down()}}
	bDown := Federation{dim: dim, zones: []Zone{b.Down()}}
	escape := gDown.Subtract(bDown)
	inside := Federation{dim: dim, zones: []Zone{g.Intersect(b.Down())}}
	late := inside.Subtract(Federation{dim: dim, zones: []Zone{b}}).Down()
	return escape.Union(late)
}

// Key returns a string that identifies the normalized federation.
func (f Federation) Key() string {
	var sb strings.Builder
	for i, z := range f.zones {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(z.Key())
	}
	return sb.String()
}

// Format renders the federation as a disjunction of zones.
func (f Federation) Format(names []string) string {
	if f.IsEmpty() {
		return "false"
	}
	parts := make([]string, 0, len(f.zones))
	for _, z := range f.zones {
		parts = append(parts, z.Format(names))
	}
	return strings.Join(parts, " || ")
}

// String formats the federation with default clock names.
func (f Federation) String() string {
	return f.Format(nil)
}

// normalizeZones canonicalizes a slice of zones by:
//  1. Removing empty zones
//  2. Removing zones included in another one
//  3. Merging pairs whose hull adds no valuation
//  4. Sorting by key
func normalizeZones(zones []Zone) []Zone {
	filtered := zones[:0]
	for _, z := range zones {
		if !z.IsEmpty() {
			filtered = append(filtered, z)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	for changed := true; changed; {
		changed = false
		filtered = dropSubsumed(filtered)
	merge:
		for i := 0; i < len(filtered); i++ {
			for j := i + 1; j < len(filtered); j++ {
				if h, ok := convexUnion(filtered[i], filtered[j]); ok {
					filtered[i] = h
					filtered = slices.Delete(filtered, j, j+1)
					changed = true
					break merge
				}
			}
		}
	}

	slices.SortFunc(filtered, func(a, b Zone) int {
		return strings.Compare(a.Key(), b.Key())
	})
	out := make([]Zone, len(filtered))
	copy(out, filtered)
	return out
}

func dropSubsumed(zones []Zone) []Zone {
	out := make([]Zone, 0, len(zones))
	for i, z := range zones {
		subsumed := false
		for j, o := range zones {
			if i == j {
				continue
			}
			// Equal zones: keep the first occurrence only.
			if z.IsSubset(o) && (!o.IsSubset(z) || j < i) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, z)
		}
	}
	return out
}

// convexUnion returns the hull of a and b when it is exactly a ∪ b.
func convexUnion(a, b Zone) (Zone, bool) {
	h := a.Hull(b)
	rest := h.Subtract(a)
	for _, r := range rest {
		if len(r.Subtract(b)) > 0 {
			return Zone{}, false
		}
	}
	return h, true
}

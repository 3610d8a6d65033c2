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

import "unique"

// Name is an interned variable name. Equal names compare as handles.
type Name = unique.Handle[string]

// MakeName interns s.
func MakeName(s string) Name {
	return unique.Make(s)
}

// Universe is the immutable set of variables a Manager works over: the clocks,
// with the implicit reference clock at index 0, and the boolean variables,
// whose index is also their level in the diagram order.
//
// A Universe is created once and then shared; it is safe for concurrent use.
type Universe struct {
	clocks    []Name
	bools     []Name
	clockIdx  map[Name]int
	boolLevel map[Name]int
}

// NewUniverse declares clocks and boolean variables. Names must be non-empty
// and distinct across both sets.
//
// Example:
//
//	u, err := NewUniverse([]string{"x", "y"}, []string{"a", "b"})
//	// u.Dim() == 3, u.Clock("y") == 2, u.Bool("b") == 1
func NewUniverse(clocks, bools []string) (*Universe, error) {
	u := &Universe{
		clocks:    make([]Name, 0, len(clocks)+1),
		bools:     make([]Name, 0, len(bools)),
		clockIdx:  make(map[Name]int, len(clocks)),
		boolLevel: make(map[Name]int, len(bools)),
	}
	u.clocks = append(u.clocks, MakeName("0"))

	seen := make(map[Name]bool, len(clocks)+len(bools))
	for _, s := range clocks {
		n, err := declare(seen, s)
		if err != nil {
			return nil, err
		}
		u.clockIdx[n] = len(u.clocks)
		u.clocks = append(u.clocks, n)
	}
	for _, s := range bools {
		n, err := declare(seen, s)
		if err != nil {
			return nil, err
		}
		u.boolLevel[n] = len(u.bools)
		u.bools = append(u.bools, n)
	}
	return u, nil
}

// MustUniverse is like NewUniverse but panics on error.
func MustUniverse(clocks, bools []string) *Universe {
	u, err := NewUniverse(clocks, bools)
	if err != nil {
		panic(err)
	}
	return u
}

func declare(seen map[Name]bool, s string) (Name, error) {
	if s == "" {
		return Name{}, &UniverseError{Msg: "empty variable name"}
	}
	switch s {
	case "true", "false", "0":
		return Name{}, &UniverseError{Name: s, Msg: "reserved name"}
	}
	n := MakeName(s)
	if seen[n] {
		return Name{}, &UniverseError{Name: s, Msg: "duplicate variable"}
	}
	seen[n] = true
	return n, nil
}

// Dim returns the number of clocks plus one for the reference clock.
func (u *Universe) Dim() int {
	return len(u.clocks)
}

// NumClocks returns the number of declared clocks.
func (u *Universe) NumClocks() int {
	return len(u.clocks) - 1
}

// NumBools returns the number of boolean variables.
func (u *Universe) NumBools() int {
	return len(u.bools)
}

// Clock returns the index of the named clock.
func (u *Universe) Clock(name string) (int, bool) {
	i, ok := u.clockIdx[MakeName(name)]
	return i, ok
}

// Bool returns the level of the named boolean variable.
func (u *Universe) Bool(name string) (int, bool) {
	l, ok := u.boolLevel[MakeName(name)]
	return l, ok
}

// ClockName returns the name of clock i; clock 0 is named "0".
func (u *Universe) ClockName(i int) string {
	return u.clocks[i].Value()
}

// BoolName returns the name of the boolean variable at level.
func (u *Universe) BoolName(level int) string {
	return u.bools[level].Value()
}

// ClockNames returns the clock names indexed by clock, suitable for
// Zone.Format.
func (u *Universe) ClockNames() []string {
	names := make([]string, len(u.clocks))
	for i, n := range u.clocks {
		names[i] = n.Value()
	}
	return names
}

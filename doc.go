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

// Package cdd implements clock decision diagrams: hybrid decision diagrams
// whose nodes test boolean variables and whose terminals hold unions of
// clock zones. They represent the symbolic state spaces of timed automata.
//
// A Manager owns the diagrams built over one Universe of clocks and boolean
// variables. On top of the boolean algebra it provides the reachability
// operators of timed-automata model checking:
//
//   - Delay, Past and Predt for time elapse
//   - Transition, TransitionBack and TransitionBackPast for discrete edges
//   - ApplyReset for edge updates without a guard
//   - Traces and AllTraces to enumerate boolean valuations
//
// Every operator peels (guard, zone) components off its input with
// ExtractBDDAndDBM, transforms the zone, and unions the results back into a
// new diagram. Each extraction removes at least one zone, as measured by
// ZoneCount, so the loops terminate.
//
// Basic usage:
//
//	u := cdd.MustUniverse([]string{"x", "y"}, []string{"on"})
//	m := cdd.New(u)
//	init := m.MustParse("x == 0, y == 0, !on")
//	guard := m.MustParse("x >= 2")
//	next := m.Transition(m.Delay(init), guard, cdd.Reset{
//	    Clocks: []int{1}, ClockValues: []int32{0},
//	    Bools: []int{0}, BoolValues: []bool{true},
//	})
//	fmt.Println(m.Format(next))
//
// Misuse, such as extracting from a boolean diagram or passing resets with
// mismatched lengths, panics with *PreconditionError.
package cdd

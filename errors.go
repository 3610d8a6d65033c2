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
)

// PreconditionError reports a misuse of the API: extracting from a
// boolean-only diagram, enumerating traces of a diagram with zones,
// mismatched reset slices, out-of-range clocks or levels.
//
// Operators never return it. They panic with it, so that a caller bug cannot
// silently produce a wrong diagram. Recover it with errors.As when needed:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        var pe *PreconditionError
//	        if err, ok := r.(error); ok && errors.As(err, &pe) {
//	            log.Printf("%s: %s", pe.Op, pe.Msg)
//	        }
//	    }
//	}()
type PreconditionError struct {
	Op  string
	Msg string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Op == "" {
		return "cdd: " + e.Msg
	}
	return fmt.Sprintf("cdd: %s: %s", e.Op, e.Msg)
}

// ErrIterationLimit is raised when a decomposition loop runs for more steps
// than allowed by WithMaxSteps. The loops shrink the diagram on every step,
// so hitting the limit means the limit is too small for the input.
type ErrIterationLimit struct {
	Op    string
	Steps int
}

// Error implements the error interface.
func (e ErrIterationLimit) Error() string {
	if e.Steps <= 0 {
		return "cdd: iteration limit exceeded"
	}
	if e.Op == "" {
		return fmt.Sprintf("cdd: iteration limit exceeded after %d steps", e.Steps)
	}
	return fmt.Sprintf("cdd: %s exceeded iteration limit after %d steps", e.Op, e.Steps)
}

// ParseError is returned by Parse for malformed input.
type ParseError struct {
	Input string
	Atom  string
	Msg   string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Atom != "" {
		return fmt.Sprintf("parse %q: %s: %q", e.Input, e.Msg, e.Atom)
	}
	return fmt.Sprintf("parse %q: %s", e.Input, e.Msg)
}

// UniverseError is returned when clock or boolean declarations are invalid.
type UniverseError struct {
	Name string
	Msg  string
}

// Error implements the error interface
func (e *UniverseError) Error() string {
	if e.Name == "" {
		return "universe: " + e.Msg
	}
	return fmt.Sprintf("universe: %s %q", e.Msg, e.Name)
}

var (
	_ error = (*PreconditionError)(nil)
	_ error = ErrIterationLimit{}
	_ error = (*ParseError)(nil)
	_ error = (*UniverseError)(nil)
)

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
	"math"
)

// Bound is the upper bound of a clock difference constraint x_i - x_j ≺ c,
// where ≺ is either < or <=.
//
// Bounds use the raw encoding of the classic DBM libraries: the constant is
// shifted left by one and the low bit is set for weak (<=) bounds. With this
// encoding the natural integer order is also the tightness order:
//
//	LT(3) < LE(3) < LT(4) < ... < Infinity
//
// Infinity is the strict unbounded sentinel and absorbs addition.
type Bound int32

const (
	infValue = math.MaxInt32 >> 1

	// Infinity represents the absence of an upper bound.
	Infinity Bound = infValue << 1

	// LEZero is the bound "<= 0" found on the diagonal of every closed zone.
	LEZero Bound = 1

	// LTZero is the bound "< 0"; a diagonal entry below LEZero marks an empty zone.
	LTZero Bound = 0

	// MaxConstant is the largest absolute value of a bound constant. The sum
	// of two bounds within this range stays below Infinity.
	MaxConstant = infValue >> 2
)

// LE returns the weak bound "<= v". It panics with a *PreconditionError if
// |v| exceeds MaxConstant.
func LE(v int32) Bound {
	checkConstant("LE", int64(v))
	return Bound(v<<1 | 1)
}

// LT returns the strict bound "< v". It panics with a *PreconditionError if
// |v| exceeds MaxConstant.
func LT(v int32) Bound {
	checkConstant("LT", int64(v))
	return Bound(v << 1)
}

func checkConstant(op string, v int64) {
	if v > MaxConstant || v < -MaxConstant {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf("constant %d out of range [%d, %d]", v, -MaxConstant, MaxConstant)})
	}
}

// Value returns the constant of the bound.
func (b Bound) Value() int32 {
	return int32(b) >> 1
}

// IsStrict reports whether the bound is strict (<).
func (b Bound) IsStrict() bool {
	return b&1 == 0
}

// IsInfinite reports whether the bound is Infinity.
func (b Bound) IsInfinite() bool {
	return b == Infinity
}

// Add returns the bound of the sum of two constraints. The sum is weak only
// when both operands are weak.
func (b Bound) Add(other Bound) Bound {
	if b == Infinity || other == Infinity {
		return Infinity
	}
	return (b + other) - ((b | other) & 1)
}

// Negate returns the bound of the complementary constraint: the negation of
// x_i - x_j ≺ c is x_j - x_i ≺' -c with the strictness flipped.
// Negate must not be called on Infinity.
func (b Bound) Negate() Bound {
	return 1 - b
}

// String formats the bound as "<=c", "<c" or "<inf".
func (b Bound) String() string {
	switch {
	case b == Infinity:
		return "<inf"
	case b.IsStrict():
		return fmt.Sprintf("<%d", b.Value())
	default:
		return fmt.Sprintf("<=%d", b.Value())
	}
}

func minBound(a, b Bound) Bound {
	if a < b {
		return a
	}
	return b
}

func maxBound(a, b Bound) Bound {
	if a > b {
		return a
	}
	return b
}

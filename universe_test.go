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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniverse(t *testing.T) {
	t.Parallel()

	u, err := NewUniverse([]string{"x", "y"}, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, 3, u.Dim())
	assert.Equal(t, 2, u.NumClocks())
	assert.Equal(t, 3, u.NumBools())
	assert.Equal(t, []string{"0", "x", "y"}, u.ClockNames())

	i, ok := u.Clock("y")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = u.Clock("a")
	assert.False(t, ok)

	l, ok := u.Bool("c")
	assert.True(t, ok)
	assert.Equal(t, 2, l)
	_, ok = u.Bool("x")
	assert.False(t, ok)

	assert.Equal(t, "x", u.ClockName(1))
	assert.Equal(t, "0", u.ClockName(0))
	assert.Equal(t, "b", u.BoolName(1))
}

func TestNewUniverseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		clocks []string
		bools  []string
		bad    string
	}{
		{"duplicate clock", []string{"x", "x"}, nil, "x"},
		{"clock and bool clash", []string{"x"}, []string{"x"}, "x"},
		{"reserved true", nil, []string{"true"}, "true"},
		{"reserved reference clock", []string{"0"}, nil, "0"},
		{"empty name", []string{""}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUniverse(tt.clocks, tt.bools)
			require.Error(t, err)
			var ue *UniverseError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.bad, ue.Name)
		})
	}

	assert.Panics(t, func() { MustUniverse([]string{"x", "x"}, nil) })
}

func TestEmptyUniverse(t *testing.T) {
	t.Parallel()

	u, err := NewUniverse(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Dim())
	assert.Equal(t, 0, u.NumBools())

	m := New(u)
	assert.Equal(t, True, m.RemoveNegative(True))
}

func TestMakeNameInterns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MakeName("clock"), MakeName("clo"+"ck"))
	assert.NotEqual(t, MakeName("a"), MakeName("b"))
	assert.Equal(t, "clock", MakeName("clock").Value())
}

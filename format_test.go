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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	u := MustUniverse([]string{"x"}, []string{"b0", "b1"})
	m := New(u)

	tests := []struct {
		name string
		d    Diagram
		want string
	}{
		{"true", True, "true"},
		{"false", False, "false"},
		{"literal", m.NBoolVar(1), "!b1"},
		{"guarded zone", m.MustParse("b0 && x <= 5"), "b0 && x<=5"},
		{"zone or literal", m.MustParse("b0 || x <= 5"), "b0 || !b0 && x<=5"},
		{"conjunction", m.MustParse("b0 && !b1"), "b0 && !b1"},
		{"union of zones", m.MustParse("x <= 1 || x >= 3"), "(x>=3 || x<=1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Format(tt.d))
		})
	}
}

func TestWriteDot(t *testing.T) {
	t.Parallel()
	u := MustUniverse([]string{"x"}, []string{"b0", "b1"})
	m := New(u)

	var buf bytes.Buffer
	require.NoError(t, m.WriteDot(&buf, m.MustParse("b0 && x <= 5 || !b0 && b1")))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph cdd {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `label="b0"`)
	assert.Contains(t, out, `label="b1"`)
	assert.Contains(t, out, `label="x<=5"`)
	assert.Contains(t, out, "style=dotted")
	assert.Contains(t, out, "style=dashed")
	assert.Contains(t, out, "root -> ")

	buf.Reset()
	require.NoError(t, m.WriteDot(&buf, m.NBoolVar(0)))
	assert.Contains(t, buf.String(), "root -> n")
	assert.Contains(t, buf.String(), "[style=dashed];\n}")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteDotError(t *testing.T) {
	t.Parallel()
	m := New(MustUniverse(nil, []string{"a"}))

	err := m.WriteDot(failingWriter{}, m.BoolVar(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

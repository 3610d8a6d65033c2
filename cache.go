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

type opCode uint8

const (
	opAnd opCode = iota
	opOr
)

type applyKey struct {
	op   opCode
	a, b Diagram
}

// memo holds the operation caches of a Manager. Results stay valid for the
// lifetime of the arena, so entries are only dropped to bound memory.
//
// The caches are maintained for the lifetime of the Manager and assume that
// nodes are never mutated after creation.
type memo struct {
	limit int

	apply      map[applyKey]Diagram
	applyCalls int
	applyHits  int

	not      map[Diagram]Diagram
	notCalls int
	notHits  int

	reduce      map[Diagram]Diagram
	reduceCalls int
	reduceHits  int
}

func newMemo(limit int) memo {
	return memo{
		limit:  limit,
		apply:  make(map[applyKey]Diagram),
		not:    make(map[Diagram]Diagram),
		reduce: make(map[Diagram]Diagram),
	}
}

func (c *memo) lookupApply(k applyKey) (Diagram, bool) {
	c.applyCalls++
	d, ok := c.apply[k]
	if ok {
		c.applyHits++
	}
	return d, ok
}

func (c *memo) storeApply(k applyKey, d Diagram) {
	if c.limit > 0 && len(c.apply) >= c.limit {
		clear(c.apply)
	}
	c.apply[k] = d
}

func (c *memo) lookupNot(d Diagram) (Diagram, bool) {
	c.notCalls++
	r, ok := c.not[d]
	if ok {
		c.notHits++
	}
	return r, ok
}

func (c *memo) storeNot(d, r Diagram) {
	if c.limit > 0 && len(c.not) >= c.limit {
		clear(c.not)
	}
	c.not[d] = r
}

func (c *memo) lookupReduce(d Diagram) (Diagram, bool) {
	c.reduceCalls++
	r, ok := c.reduce[d]
	if ok {
		c.reduceHits++
	}
	return r, ok
}

func (c *memo) storeReduce(d, r Diagram) {
	if c.limit > 0 && len(c.reduce) >= c.limit {
		clear(c.reduce)
	}
	c.reduce[d] = r
}

// CacheStats reports memo cache performance and arena size.
type CacheStats struct {
	ApplyCalls   int
	ApplyHits    int
	ApplyHitRate float64

	NotCalls   int
	NotHits    int
	NotHitRate float64

	ReduceCalls   int
	ReduceHits    int
	ReduceHitRate float64

	TotalCalls     int
	TotalCacheHits int
	OverallHitRate float64

	Nodes int
}

// CacheStats returns cache performance statistics.
func (m *Manager) CacheStats() CacheStats {
	c := &m.cache
	stats := CacheStats{
		ApplyCalls:     c.applyCalls,
		ApplyHits:      c.applyHits,
		NotCalls:       c.notCalls,
		NotHits:        c.notHits,
		ReduceCalls:    c.reduceCalls,
		ReduceHits:     c.reduceHits,
		TotalCalls:     c.applyCalls + c.notCalls + c.reduceCalls,
		TotalCacheHits: c.applyHits + c.notHits + c.reduceHits,
		Nodes:          len(m.nodes),
	}
	stats.ApplyHitRate = rate(stats.ApplyHits, stats.ApplyCalls)
	stats.NotHitRate = rate(stats.NotHits, stats.NotCalls)
	stats.ReduceHitRate = rate(stats.ReduceHits, stats.ReduceCalls)
	stats.OverallHitRate = rate(stats.TotalCacheHits, stats.TotalCalls)
	return stats
}

// ClearCaches drops every memo entry. Diagrams stay valid.
func (m *Manager) ClearCaches() {
	clear(m.cache.apply)
	clear(m.cache.not)
	clear(m.cache.reduce)
}

func rate(hits, calls int) float64 {
	if calls == 0 {
		return 0
	}
	return float64(hits) / float64(calls)
}

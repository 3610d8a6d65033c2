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
	"io"
	"log/slog"
)

// PredtGuardMode selects which boolean region restricts the plain past of a
// target component in Predt, under the valuations where the forbidden region
// is empty.
type PredtGuardMode int

const (
	// GuardTarget restricts the uncovered past to the target guard.
	GuardTarget PredtGuardMode = iota

	// GuardIntersection restricts the uncovered past to the target guard
	// intersected with the boolean projection of the safe region.
	GuardIntersection
)

// String returns the flag spelling of the mode.
func (m PredtGuardMode) String() string {
	switch m {
	case GuardTarget:
		return "target"
	case GuardIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Options configures a Manager.
//
// Options control:
//   - Diagnostics logging of the decomposition loops
//   - A step limit for every decomposition loop
//   - The boolean restriction used by Predt
//   - The size of the operation memo caches
type Options struct {
	// Logger receives Debug records for every decomposition step.
	// When nil, records are discarded.
	Logger *slog.Logger

	// MaxSteps limits the iterations of a single decomposition loop.
	// Set to 0 to disable the limit.
	// Default: 100000
	MaxSteps int

	// PredtGuardMode selects the boolean restriction of Predt.
	// Default: GuardTarget
	PredtGuardMode PredtGuardMode

	// CacheLimit bounds the number of entries of each memo cache; a full
	// cache is cleared before it grows further. Set to 0 for no limit.
	// Default: 1 << 20
	CacheLimit int
}

// Option is a functional option for configuring a Manager.
type Option func(*Options)

const (
	defaultMaxSteps   = 100000
	defaultCacheLimit = 1 << 20
)

func defaultOptions() Options {
	return Options{
		MaxSteps:   defaultMaxSteps,
		CacheLimit: defaultCacheLimit,
	}
}

// WithLogger sets a structured logger for operator diagnostics.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	m := cdd.New(u, cdd.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMaxSteps sets the maximum number of iterations of a decomposition loop.
// Use 0 to disable the limit.
func WithMaxSteps(steps int) Option {
	return func(opts *Options) {
		if steps <= 0 {
			opts.MaxSteps = 0
		} else {
			opts.MaxSteps = steps
		}
	}
}

// WithPredtGuardMode selects the boolean restriction used by Predt.
func WithPredtGuardMode(mode PredtGuardMode) Option {
	return func(opts *Options) {
		opts.PredtGuardMode = mode
	}
}

// WithCacheLimit bounds each memo cache. Use 0 for unbounded caches.
func WithCacheLimit(entries int) Option {
	return func(opts *Options) {
		if entries < 0 {
			entries = 0
		}
		opts.CacheLimit = entries
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

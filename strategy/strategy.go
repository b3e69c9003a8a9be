/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"fmt"
	"strings"
)

// Strategy controls how a handler library coordinates concurrent cache
// misses for the same descriptor.
//
// # Values
//
//   - Shared: every caller that misses runs the factory chain itself.
//     Duplicate work is possible; the first published handler wins and all
//     callers receive it.
//   - SingleFlight: concurrent top-level misses for one descriptor share a
//     single factory run.
//
// # Contract
//
//   - Library implementations MUST treat Strategy as a stable, public API;
//     adding new values is allowed, but existing values MUST NOT change
//     their semantics in breaking ways.
//   - Strategy values are plain integers and safe to share across goroutines.
type Strategy int

const (
	// Shared tolerates duplicate factory runs on racing misses.
	//
	// Handlers built for the same descriptor are required to be equivalent,
	// so duplicate construction is wasteful but not unsafe. This is the
	// default.
	Shared Strategy = iota

	// SingleFlight collapses concurrent top-level misses for the same
	// descriptor into one factory run whose result every waiter receives.
	//
	// Nested resolutions made by factories never wait on a flight, which
	// keeps mutually recursive types from deadlocking across goroutines.
	SingleFlight
)

// String returns a human-readable representation of the Strategy value.
//
// For unknown values String returns "Unknown(<n>)" and never panics, so
// corrupted values can still be surfaced safely in logs.
func (s Strategy) String() string {
	switch s {
	case Shared:
		return "Shared"
	case SingleFlight:
		return "SingleFlight"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Parse parses a textual representation of a Strategy.
//
// Matching is case-insensitive, surrounding whitespace is trimmed, and
// "single-flight" / "single_flight" are accepted as spellings of
// SingleFlight. On failure Parse returns Shared and a non-nil error.
func Parse(s string) (Strategy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Shared, fmt.Errorf("typehandling(strategy): empty strategy")
	}

	switch strings.ToUpper(strings.NewReplacer("-", "", "_", "").Replace(trimmed)) {
	case "SHARED":
		return Shared, nil
	case "SINGLEFLIGHT":
		return SingleFlight, nil
	default:
		return Shared, fmt.Errorf("typehandling(strategy): unknown strategy %q", s)
	}
}

// MustParse is like Parse but panics on invalid input.
// Callers MUST NOT use it on untrusted input.
//
//	var defaultStrategy = MustParse("shared")
func MustParse(s string) Strategy {
	strategy, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return strategy
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error so invalid states are never persisted.
func (s Strategy) MarshalText() ([]byte, error) {
	switch s {
	case Shared, SingleFlight:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("typehandling(strategy): cannot marshal unknown strategy %d", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the same
// tokens as Parse. On failure *s is left unchanged.
func (s *Strategy) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}

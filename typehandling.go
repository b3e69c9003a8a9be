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

package typehandling

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/builder"
	"dirpx.dev/typehandling/config"
	"dirpx.dev/typehandling/typeinfo"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.lib = s.bld.BuildLibrary(s.cfg, nil, nil)
	st.Store(s)
}

// ErrNilLibrary is returned when a builder returns a nil library.
var ErrNilLibrary = errors.New("typehandling: builder returned nil library")

// Resolve returns the handler for d from the global library, resolving
// with the given visibility scopes on a miss.
// This is a convenience wrapper around the global library. Its cache is
// shared by every caller whatever scopes they pass: a type resolved under
// one caller's scopes is served to all later callers. Give each plugin or
// other trust boundary its own library.New instead.
func Resolve(d typeinfo.Descriptor, scopes ...apis.Scope) (apis.Handler, bool) {
	return st.Load().lib.Handler(d, scopes...)
}

// HandlerFor returns the handler for the non-generic identity raw from the
// global library. The cache caveat of Resolve applies.
func HandlerFor(raw string, scopes ...apis.Scope) (apis.Handler, bool) {
	return st.Load().lib.HandlerFor(raw, scopes...)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the library
// unless it is pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old.with(func(s *state) { s.cfg = cfg }), !old.pinned)
}

// Library returns the global library.
func Library() apis.Library {
	return st.Load().lib
}

// SetLibrary replaces the global library with lib and pins it: later
// configuration, builder or extension changes no longer rebuild it until
// UnpinLibrary is called. A nil lib is ignored.
func SetLibrary(lib apis.Library) {
	if lib == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	publish(st.Load().with(func(s *state) {
		s.lib = lib
		s.pinned = true
	}), false)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the library unless
// it is pinned. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old.with(func(s *state) { s.bld = b }), !old.pinned)
}

// SetExt replaces the extension payload passed to the builder and rebuilds
// the library unless it is pinned.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old.with(func(s *state) { s.ext = ext }), !old.pinned)
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged, except for ext
// which is always replaced and lib: a nil lib is rebuilt by the builder and
// unpins the library, a non-nil lib is installed pinned.
func SetAll(cfg *apis.Config, ext any, lib apis.Library, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := st.Load().with(func(s *state) {
		if cfg != nil {
			s.cfg = *cfg
		}
		if bld != nil {
			s.bld = bld
		}
		if lib != nil {
			s.lib = lib
		}
		s.ext = ext
		s.pinned = lib != nil
	})
	publish(next, lib == nil)
}

// IsLibraryPinned reports whether the global library is pinned.
func IsLibraryPinned() bool {
	return st.Load().pinned
}

// PinLibrary stops automatic rebuilds of the global library.
func PinLibrary() {
	buildMu.Lock()
	defer buildMu.Unlock()

	publish(st.Load().with(func(s *state) { s.pinned = true }), false)
}

// UnpinLibrary allows automatic rebuilds again. The current library is kept
// until the next configuration, builder or extension change.
func UnpinLibrary() {
	buildMu.Lock()
	defer buildMu.Unlock()

	publish(st.Load().with(func(s *state) { s.pinned = false }), false)
}

// publish stores s, first rebuilding its library through its builder when
// rebuild is set. It must be called with buildMu held.
func publish(s *state, rebuild bool) {
	if rebuild {
		prev := s.lib
		s.lib = s.bld.BuildLibrary(s.cfg, prev, s.ext)
	}
	if s.lib == nil {
		panic(ErrNilLibrary)
	}
	st.Store(s)
}

// buildMu serializes writers so a partially built snapshot is never
// published.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global snapshot. A published state is never mutated;
// writers copy it, change the copy, and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the extension payload handed to the builder.
	ext any
	// lib is the global library.
	lib apis.Library
	// bld builds lib.
	bld apis.Builder
	// pinned stops lib from being rebuilt.
	pinned bool
}

// with returns a modified copy of s.
func (s *state) with(edit func(*state)) *state {
	cp := *s
	edit(&cp)
	return &cp
}

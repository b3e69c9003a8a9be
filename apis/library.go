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

package apis

import (
	"context"

	"dirpx.dev/typehandling/typeinfo"
)

// Library owns an ordered factory chain and an append-only handler cache.
// It is the single entry point for resolving handlers.
type Library interface {
	// ID identifies the library instance in logs and traces.
	ID() string
	// Config returns the configuration the library was built with.
	Config() Config
	// Resolve returns the handler for d, consulting the cache first and the
	// factory chain on a miss. Absence is (nil, false), never a panic.
	// A nil ctx resolves with no visibility scopes.
	Resolve(d typeinfo.Descriptor, ctx Context) (Handler, bool)
	// Handler resolves d in a fresh context over scopes.
	Handler(d typeinfo.Descriptor, scopes ...Scope) (Handler, bool)
	// HandlerFor resolves the non-generic identity raw.
	HandlerFor(raw string, scopes ...Scope) (Handler, bool)
	// Context returns a root resolution context over scopes. ctx carries
	// trace parents and may be nil.
	Context(ctx context.Context, scopes ...Scope) Context
	// Factories returns a copy of the registered factories in order.
	Factories() []Factory
	// Entries returns a snapshot of the cache for diagnostics, sorted by key.
	Entries() []Entry
	// Count returns the number of cached handlers.
	Count() int
}

// Entry is a single (descriptor, handler) association in a cache snapshot.
type Entry struct {
	// Type is the cached descriptor.
	Type typeinfo.Descriptor
	// Handler is the published handler.
	Handler Handler
}

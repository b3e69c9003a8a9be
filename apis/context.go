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

// Context is the immutable bundle handed to factories for one resolution
// call tree. It references the owning Library and the ordered visibility
// scopes the factory may use to find types by name.
//
// Lookup is the only way a factory may locate a type by name. Nested
// resolutions made through Resolve see exactly the same scopes.
type Context interface {
	// Library returns the Library that started the resolution. Factories
	// must resolve nested types through Resolve, not Library().Handler,
	// which starts a new root without this call tree's path and scopes.
	Library() Library
	// Scopes returns a copy of the visibility scopes, in search order.
	Scopes() []Scope
	// Path returns the descriptors currently being resolved on this call
	// tree, outermost first.
	Path() []typeinfo.Descriptor
	// Resolve resolves a nested descriptor with the same scopes.
	Resolve(d typeinfo.Descriptor) (Handler, bool)
	// ResolveRaw resolves a non-generic identity with the same scopes.
	ResolveRaw(raw string) (Handler, bool)
	// Lookup finds a type definition by identity in the scopes, in order.
	Lookup(id string) (typeinfo.Definition, bool)
	// Trace returns the context.Context carrying the active trace span.
	Trace() context.Context
}

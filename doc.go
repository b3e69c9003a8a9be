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

// Package typehandling provides a process-wide default handler library.
//
// A handler encodes values of exactly one type into the abstract tree of
// package data and decodes them back. Types are described by
// typeinfo.Descriptor values: a raw identity plus, for generic types, a
// list of argument descriptors, e.g. list<int> or pair<math:Vector2f>.
// Handlers are produced on demand by an ordered chain of factories and
// cached by a library (package library) for its lifetime.
//
// # Design
//
// The package holds a read-mostly global snapshot with four parts:
//
//   - Config: the cache strategy, the nesting limit and miss logging.
//
//   - Library: the factory chain plus its append-only handler cache.
//     Factories resolve the type arguments of composite types through the
//     resolution context they receive, so nested handlers come from the
//     same cache and see the same visibility scopes.
//
//   - Builder: constructs a Library for a Config and an optional
//     extension payload. The default builder registers the builtin
//     primitives and composites, then the math types, then extension
//     factories.
//
//   - Ext: an opaque payload handed to the Builder. The default builder
//     accepts an apis.Factory or a []apis.Factory.
//
// Readers load the current snapshot atomically and never lock:
//
//	h, ok := typehandling.HandlerFor("math:Rect2f")
//	h, ok = typehandling.Resolve(typeinfo.MustParse("list<string>"), modScope)
//
// Writers (SetConfig, SetBuilder, SetExt, SetLibrary, SetAll) take a short
// build mutex, assemble a new snapshot and publish it with an atomic swap.
// Rebuilding produces a library with an empty cache.
//
// # Visibility scopes
//
// Types defined by plugins are only reachable through the scopes passed to
// a resolution. A record type that no supplied scope defines is simply
// absent, even if another scope in the process defines it.
//
// Scopes gate resolution, not the cache. Once a type is resolved, the library
// serves it to every caller, scoped or not. The global library is therefore
// shared by all plugins; sandboxed code should get its own library built with
// library.New, one per plugin or trust boundary.
//
// # Pinning
//
// SetLibrary installs a caller-built library and pins it. While pinned,
// SetConfig, SetBuilder and SetExt update the snapshot but keep the
// library. UnpinLibrary re-enables rebuilding.
package typehandling

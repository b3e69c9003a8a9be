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

package library

import (
	"context"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/typeinfo"
)

// resolution is the concrete apis.Context. It is immutable: entering a
// nested resolution returns a new value sharing the same scopes.
type resolution struct {
	lib    *Library
	scopes []apis.Scope
	// path is the in-flight chain, innermost frame first.
	path  *frame
	depth int
	trace context.Context
}

// frame is one descriptor on the in-flight path.
type frame struct {
	typ    typeinfo.Descriptor
	key    string
	parent *frame
}

// Ensure resolution implements apis.Context.
var _ apis.Context = (*resolution)(nil)

// root builds a top-level resolution over scopes.
func (l *Library) root(ctx context.Context, scopes []apis.Scope) *resolution {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make([]apis.Scope, 0, len(scopes))
	for _, s := range scopes {
		if s != nil {
			out = append(out, s)
		}
	}
	return &resolution{lib: l, scopes: out, trace: ctx}
}

// adopt returns ctx as a resolution owned by l. Contexts from other
// libraries or other implementations are rebuilt with the same scopes and
// in-flight path, so the sandbox carries over unchanged.
func (l *Library) adopt(ctx apis.Context) *resolution {
	if ctx == nil {
		return l.root(context.Background(), nil)
	}
	if rc, ok := ctx.(*resolution); ok && rc.lib == l {
		return rc
	}
	rc := &resolution{lib: l, scopes: ctx.Scopes(), trace: ctx.Trace()}
	if rc.trace == nil {
		rc.trace = context.Background()
	}
	for _, d := range ctx.Path() {
		rc.path = &frame{typ: d, key: d.Key(), parent: rc.path}
		rc.depth++
	}
	return rc
}

// enter returns the context factories see while d is being built.
func (r *resolution) enter(d typeinfo.Descriptor, key string, trace context.Context) *resolution {
	return &resolution{
		lib:    r.lib,
		scopes: r.scopes,
		path:   &frame{typ: d, key: key, parent: r.path},
		depth:  r.depth + 1,
		trace:  trace,
	}
}

// contains reports whether key is already on the in-flight path.
func (r *resolution) contains(key string) bool {
	for f := r.path; f != nil; f = f.parent {
		if f.key == key {
			return true
		}
	}
	return false
}

func (r *resolution) Library() apis.Library { return r.lib }

func (r *resolution) Scopes() []apis.Scope {
	out := make([]apis.Scope, len(r.scopes))
	copy(out, r.scopes)
	return out
}

func (r *resolution) Path() []typeinfo.Descriptor {
	out := make([]typeinfo.Descriptor, r.depth)
	i := r.depth - 1
	for f := r.path; f != nil && i >= 0; f = f.parent {
		out[i] = f.typ
		i--
	}
	return out
}

func (r *resolution) Resolve(d typeinfo.Descriptor) (apis.Handler, bool) {
	return r.lib.Resolve(d, r)
}

func (r *resolution) ResolveRaw(raw string) (apis.Handler, bool) {
	return r.lib.Resolve(typeinfo.Of(raw), r)
}

// Lookup searches the scopes in order, with no global fallback:
// a type outside every scope does not exist for this context.
func (r *resolution) Lookup(id string) (typeinfo.Definition, bool) {
	for _, s := range r.scopes {
		if d, ok := s.Lookup(id); ok {
			return d, true
		}
	}
	return typeinfo.Definition{}, false
}

func (r *resolution) Trace() context.Context { return r.trace }

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

// Package scope provides named visibility scopes: immutable sets of type
// definitions a module makes loadable by name.
//
// A resolution context carries an ordered list of scopes. Factories that
// need to locate a type by name search only those scopes, which is how
// plugin code is kept from reaching types outside its granted visibility.
package scope

import (
	"sort"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/typeinfo"
)

// Scope is an immutable, named set of type definitions.
type Scope struct {
	name string
	defs map[string]typeinfo.Definition
}

// Ensure Scope implements apis.Scope.
var _ apis.Scope = (*Scope)(nil)

// New builds a scope named name. When two definitions share an identity the
// first one wins.
func New(name string, defs ...typeinfo.Definition) *Scope {
	m := make(map[string]typeinfo.Definition, len(defs))
	for _, d := range defs {
		if _, dup := m[d.Name()]; dup {
			continue
		}
		m[d.Name()] = cloneDefinition(d)
	}
	return &Scope{name: name, defs: m}
}

// Name returns the scope name.
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Lookup returns the definition published under id.
func (s *Scope) Lookup(id string) (typeinfo.Definition, bool) {
	if s == nil {
		return typeinfo.Definition{}, false
	}
	d, ok := s.defs[id]
	if !ok {
		return typeinfo.Definition{}, false
	}
	return cloneDefinition(d), true
}

// Definitions returns the definitions sorted by identity.
func (s *Scope) Definitions() []typeinfo.Definition {
	if s == nil {
		return nil
	}
	out := make([]typeinfo.Definition, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, cloneDefinition(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len returns the number of definitions.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.defs)
}

// Union composes scopes into a single scope named name. Scopes are searched
// in order, so an earlier scope shadows later ones. Nil scopes are skipped.
func Union(name string, scopes ...apis.Scope) apis.Scope {
	out := make([]apis.Scope, 0, len(scopes))
	for _, s := range scopes {
		if s != nil {
			out = append(out, s)
		}
	}
	return union{name: name, scopes: out}
}

type union struct {
	name   string
	scopes []apis.Scope
}

func (u union) Name() string { return u.name }

func (u union) Lookup(id string) (typeinfo.Definition, bool) {
	for _, s := range u.scopes {
		if d, ok := s.Lookup(id); ok {
			return d, true
		}
	}
	return typeinfo.Definition{}, false
}

func cloneDefinition(d typeinfo.Definition) typeinfo.Definition {
	fields := make([]typeinfo.Field, len(d.Fields))
	copy(fields, d.Fields)
	return typeinfo.Definition{Type: d.Type, Fields: fields}
}

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

// Package factory provides small building blocks for apis.Factory
// implementations: function adapters, exact-identity factories, naming, and
// predicate gating.
package factory

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/typeinfo"
)

// Func adapts a function to apis.Factory.
type Func func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool)

// Create implements apis.Factory.
func (f Func) Create(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
	if f == nil {
		return nil, false
	}
	return f(d, ctx)
}

// Exact returns a factory that accepts only the non-generic descriptor raw
// and always returns h.
func Exact(raw string, h apis.Handler) apis.Factory {
	return &exact{raw: raw, h: h}
}

// exact is a reflection-free fast path for a single known identity.
type exact struct {
	raw string
	h   apis.Handler
}

// Ensure exact implements apis.Factory.
var _ apis.Factory = (*exact)(nil)

func (f *exact) Create(d typeinfo.Descriptor, _ apis.Context) (apis.Handler, bool) {
	if f.h == nil || d.IsGeneric() || d.Raw() != f.raw {
		return nil, false
	}
	return f.h, true
}

func (f *exact) Name() string { return "exact:" + f.raw }

// Named attaches a diagnostic name to f.
func Named(name string, f apis.Factory) apis.Factory {
	return &named{name: name, f: f}
}

type named struct {
	name string
	f    apis.Factory
}

func (n *named) Create(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
	if n.f == nil {
		return nil, false
	}
	return n.f.Create(d, ctx)
}

func (n *named) Name() string { return n.name }

// Predicate decides whether a descriptor is eligible for a gated factory.
type Predicate interface {
	Match(d typeinfo.Descriptor) (bool, error)
}

// When returns a factory that consults f only for descriptors p matches.
// Predicate errors count as a decline.
func When(p Predicate, f apis.Factory) apis.Factory {
	return &gated{p: p, f: f}
}

type gated struct {
	p Predicate
	f apis.Factory
}

func (g *gated) Create(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
	if g.p == nil || g.f == nil {
		return nil, false
	}
	ok, err := g.p.Match(d)
	if err != nil || !ok {
		return nil, false
	}
	return g.f.Create(d, ctx)
}

// Name reports the inner factory's name when it has one.
func (g *gated) Name() string {
	if n, ok := g.f.(apis.Namer); ok {
		return "when:" + n.Name()
	}
	return "when"
}

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

// Package resolver implements the ordered, first-match-wins factory chain
// a handler library dispatches through.
package resolver

import (
	"fmt"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/typeinfo"
)

// Chain is an immutable, order-preserving sequence of factories.
// It is safe for concurrent use provided the factories themselves are safe
// for concurrent Create calls.
type Chain struct {
	factories []apis.Factory
}

// New constructs a Chain that tries the given factories in order.
// Nil factories are ignored.
func New(factories ...apis.Factory) Chain {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Factory, 0, len(factories))
	for _, f := range factories {
		if f != nil {
			out = append(out, f)
		}
	}
	return Chain{factories: out}
}

// Create runs factories in order until one accepts d. It returns the handler,
// the index of the winning factory, and true; or (nil, -1, false) when every
// factory declined. Remaining factories are not consulted after a win.
func (c Chain) Create(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, int, bool) {
	for i, f := range c.factories {
		if h, ok := f.Create(d, ctx); ok && h != nil {
			return h, i, true
		}
	}
	return nil, -1, false
}

// Len returns the number of factories.
func (c Chain) Len() int { return len(c.factories) }

// At returns the i-th factory.
func (c Chain) At(i int) apis.Factory { return c.factories[i] }

// Factories returns a copy of the factories in order.
func (c Chain) Factories() []apis.Factory {
	out := make([]apis.Factory, len(c.factories))
	copy(out, c.factories)
	return out
}

// NameOf returns the diagnostic name of f: its Name if it implements
// apis.Namer, otherwise its Go type.
func NameOf(f apis.Factory) string {
	if f == nil {
		return ""
	}
	if n, ok := f.(apis.Namer); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", f)
}

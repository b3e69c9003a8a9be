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

package builder

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/builtin"
	"dirpx.dev/typehandling/library"
	"dirpx.dev/typehandling/mathtypes"
)

// Option configures the default builder.
type Option func(*builder)

// WithFactories appends extension factories after the defaults.
func WithFactories(f ...apis.Factory) Option {
	return func(b *builder) {
		b.extra = append(b.extra, f...)
	}
}

// WithLibraryOptions passes ambient options (logger, tracer provider) to
// every library the builder constructs.
func WithLibraryOptions(o ...library.Option) Option {
	return func(b *builder) {
		b.libOpts = append(b.libOpts, o...)
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// builder holds the extension factories and library options it applies.
type builder struct {
	extra   []apis.Factory
	libOpts []library.Option
}

// BuildLibrary builds a new apis.Library for cfg. The chain is the builtin
// factories, then the math factories, then the builder's extension factories,
// then the factories carried by ext (an apis.Factory or []apis.Factory), and
// last the record factory, so scope definitions never shadow a type any
// other factory handles.
// prev is not consulted: cached handlers are never migrated and the chain is
// rebuilt from scratch.
func (b *builder) BuildLibrary(cfg apis.Config, _ apis.Library, ext any) apis.Library {
	factories := append(builtin.Factories(), mathtypes.Factories()...)
	factories = append(factories, b.extra...)
	switch x := ext.(type) {
	case apis.Factory:
		factories = append(factories, x)
	case []apis.Factory:
		factories = append(factories, x...)
	}
	factories = append(factories, builtin.RecordFactory())
	return library.New(cfg, factories, b.libOpts...)
}

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

// Package library implements the handler registry and cache: the single
// entry point through which callers and factories resolve handlers.
//
// A Library owns a fixed, ordered factory chain and an append-only cache
// mapping descriptors to handlers. On a miss it runs the chain with a
// resolution context that references itself; the first factory that accepts
// wins and its handler is published into the cache. Misses are never
// cached, so a later resolution with wider scopes can still succeed.
//
// Reads are lock-free (sync.Map). Racing misses for one descriptor either
// build independently, with the first published handler returned to every
// caller (strategy.Shared), or share a single build (strategy.SingleFlight).
package library

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/config"
	"dirpx.dev/typehandling/resolver"
	"dirpx.dev/typehandling/strategy"
	"dirpx.dev/typehandling/typeinfo"
)

// tracerName is the instrumentation scope of resolution spans.
const tracerName = "dirpx.dev/typehandling/library"

// Library is the apis.Library implementation.
type Library struct {
	// id identifies the instance in logs and traces.
	id string
	// cfg is the configuration the library was built with.
	cfg apis.Config
	// chain is the immutable factory chain.
	chain resolver.Chain
	// cache maps Descriptor.Key() to apis.Entry. Entries are never replaced.
	cache sync.Map
	// count tracks the number of published entries.
	count atomic.Int64
	// flights collapses concurrent top-level misses under SingleFlight.
	flights singleflight.Group
	// log receives debug diagnostics.
	log *slog.Logger
	// tracer starts one span per miss.
	tracer trace.Tracer
}

// Ensure Library implements apis.Library.
var _ apis.Library = (*Library)(nil)

// Option configures ambient collaborators of a Library.
type Option func(*options)

type options struct {
	id     string
	logger *slog.Logger
	tp     trace.TracerProvider
}

// WithID overrides the generated instance ID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTracerProvider sets the tracer provider. The default is the otel
// global provider, which is a no-op unless the process configures one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// New constructs a Library over factories, tried in the given order.
// Nil factories are ignored. The factory set is fixed for the lifetime of
// the Library.
func New(cfg apis.Config, factories []apis.Factory, opts ...Option) *Library {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}

	return &Library{
		id:     o.id,
		cfg:    cfg,
		chain:  resolver.New(factories...),
		log:    o.logger.With(slog.String("library", o.id)),
		tracer: o.tp.Tracer(tracerName),
	}
}

// ID returns the instance ID.
func (l *Library) ID() string { return l.id }

// Config returns the configuration the library was built with.
func (l *Library) Config() apis.Config { return l.cfg }

// Factories returns a copy of the registered factories in order.
func (l *Library) Factories() []apis.Factory { return l.chain.Factories() }

// Count returns the number of cached handlers.
func (l *Library) Count() int { return int(l.count.Load()) }

// Entries returns a snapshot of the cache sorted by descriptor key.
func (l *Library) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, l.Count())
	l.cache.Range(func(_, value any) bool {
		entries = append(entries, value.(apis.Entry))
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Type.Key() < entries[j].Type.Key()
	})
	return entries
}

// Context returns a root resolution context over scopes. Nil scopes are
// dropped; ctx may be nil.
func (l *Library) Context(ctx context.Context, scopes ...apis.Scope) apis.Context {
	return l.root(ctx, scopes)
}

// Handler resolves d in a fresh root context over scopes.
func (l *Library) Handler(d typeinfo.Descriptor, scopes ...apis.Scope) (apis.Handler, bool) {
	return l.Resolve(d, l.root(context.Background(), scopes))
}

// HandlerFor resolves the non-generic identity raw in a fresh root context.
func (l *Library) HandlerFor(raw string, scopes ...apis.Scope) (apis.Handler, bool) {
	return l.Handler(typeinfo.Of(raw), scopes...)
}

// Resolve returns the cached handler for d, or runs the factory chain on a
// miss. It returns (nil, false) when no factory accepts d, when d is already
// being resolved further up the same call tree (a cycle), or when the
// nesting exceeds Config.MaxDepth.
func (l *Library) Resolve(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
	key := d.Key()

	// Fast read path: no factory is consulted on a hit.
	if e, ok := l.cache.Load(key); ok {
		return e.(apis.Entry).Handler, true
	}

	rc := l.adopt(ctx)
	if rc.contains(key) {
		l.log.Debug("cyclic type dependency", slog.String("type", d.String()), slog.Int("depth", rc.depth))
		return nil, false
	}
	if rc.depth >= l.cfg.MaxDepth {
		l.log.Debug("resolution depth limit reached", slog.String("type", d.String()), slog.Int("depth", rc.depth))
		return nil, false
	}

	// Only top-level misses join a flight. Nested resolutions run inline so
	// mutually recursive types cannot wait on each other across goroutines.
	// Callers with different scopes never share a flight.
	if l.cfg.Strategy == strategy.SingleFlight && rc.depth == 0 {
		v, _, _ := l.flights.Do(key+scopesKey(rc.scopes), func() (any, error) {
			h, ok := l.build(d, key, rc)
			if !ok {
				return nil, nil
			}
			return h, nil
		})
		h, ok := v.(apis.Handler)
		return h, ok
	}
	return l.build(d, key, rc)
}

// scopesKey identifies an ordered scope set. Pointer scopes are keyed by
// address; other implementations by dynamic type and name.
func scopesKey(scopes []apis.Scope) string {
	var b strings.Builder
	for _, s := range scopes {
		b.WriteByte('|')
		if v := reflect.ValueOf(s); v.Kind() == reflect.Pointer {
			fmt.Fprintf(&b, "%T@%x", s, v.Pointer())
			continue
		}
		fmt.Fprintf(&b, "%T:%d:%s", s, len(s.Name()), s.Name())
	}
	return b.String()
}

// build runs the factory chain for d and publishes the result.
func (l *Library) build(d typeinfo.Descriptor, key string, parent *resolution) (apis.Handler, bool) {
	spanCtx, span := l.tracer.Start(parent.trace, "typehandling.resolve",
		trace.WithAttributes(
			attribute.String("typehandling.type", d.String()),
			attribute.String("typehandling.library", l.id),
			attribute.Int("typehandling.depth", parent.depth),
		),
	)
	defer span.End()

	child := parent.enter(d, key, spanCtx)
	h, idx, ok := l.chain.Create(d, child)
	if !ok {
		span.SetAttributes(attribute.String("typehandling.outcome", "absent"))
		l.logMiss(d, parent.depth)
		return nil, false
	}

	name := resolver.NameOf(l.chain.At(idx))
	actual, loaded := l.cache.LoadOrStore(key, apis.Entry{Type: d, Handler: h})
	if loaded {
		// Another goroutine published first; its handler is equivalent.
		span.SetAttributes(
			attribute.String("typehandling.factory", name),
			attribute.String("typehandling.outcome", "raced"),
		)
		return actual.(apis.Entry).Handler, true
	}
	l.count.Add(1)
	span.SetAttributes(
		attribute.String("typehandling.factory", name),
		attribute.String("typehandling.outcome", "created"),
	)
	l.log.Debug("handler created",
		slog.String("type", d.String()),
		slog.String("factory", name),
		slog.Int("depth", parent.depth),
	)
	return h, true
}

func (l *Library) logMiss(d typeinfo.Descriptor, depth int) {
	level := slog.LevelDebug
	if l.cfg.LogMisses {
		level = slog.LevelWarn
	}
	l.log.Log(context.Background(), level, "no handler", slog.String("type", d.String()), slog.Int("depth", depth))
}

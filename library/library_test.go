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

package library_test

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/builtin"
	"dirpx.dev/typehandling/config"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/library"
	"dirpx.dev/typehandling/scope"
	"dirpx.dev/typehandling/strategy"
	"dirpx.dev/typehandling/typeinfo"
)

type stubHandler struct {
	typ typeinfo.Descriptor
	tag string
}

func (h *stubHandler) Type() typeinfo.Descriptor      { return h.typ }
func (h *stubHandler) Encode(any) (data.Value, error) { return data.String(h.tag), nil }
func (h *stubHandler) Decode(data.Value) (any, error) { return h.tag, nil }

// countingFactory accepts descriptors whose raw identity is in accept.
type countingFactory struct {
	tag    string
	accept map[string]bool
	calls  atomic.Int64
}

func (f *countingFactory) Create(d typeinfo.Descriptor, _ apis.Context) (apis.Handler, bool) {
	f.calls.Add(1)
	if !f.accept[d.Raw()] {
		return nil, false
	}
	return &stubHandler{typ: d, tag: f.tag}, true
}

func (f *countingFactory) Name() string { return "counting." + f.tag }

func accepting(tag string, raws ...string) *countingFactory {
	f := &countingFactory{tag: tag, accept: map[string]bool{}}
	for _, r := range raws {
		f.accept[r] = true
	}
	return f
}

func tagOf(t *testing.T, h apis.Handler) string {
	t.Helper()
	v, err := h.Decode(data.Null())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return v.(string)
}

func TestResolve_CacheIdempotence(t *testing.T) {
	f := accepting("a", "x")
	lib := library.New(config.DefaultConfig(), []apis.Factory{f})

	h1, ok := lib.HandlerFor("x")
	if !ok {
		t.Fatal("HandlerFor(x) not found")
	}
	h2, ok := lib.HandlerFor("x")
	if !ok || h1 != h2 {
		t.Fatalf("second HandlerFor = (%v, %v), want cached %v", h2, ok, h1)
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("factory calls = %d, want 1", got)
	}
	if lib.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", lib.Count())
	}
}

func TestResolve_AbsenceIsSafeAndNotCached(t *testing.T) {
	f := accepting("a", "x")
	lib := library.New(config.DefaultConfig(), []apis.Factory{f})

	for i := 0; i < 3; i++ {
		if h, ok := lib.HandlerFor("unknown"); ok || h != nil {
			t.Fatalf("HandlerFor(unknown) = (%v, %v), want (nil, false)", h, ok)
		}
	}
	if got := f.calls.Load(); got != 3 {
		t.Fatalf("factory calls = %d, want 3 (misses are not cached)", got)
	}
	if lib.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", lib.Count())
	}
	if _, ok := lib.Handler(typeinfo.Descriptor{}); ok {
		t.Fatal("zero descriptor resolved")
	}
}

func TestResolve_MissThenWiderScope(t *testing.T) {
	// Accepts a type only when some scope defines it.
	byName := factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		if _, ok := ctx.Lookup(d.Raw()); !ok {
			return nil, false
		}
		return &stubHandler{typ: d, tag: "plugin"}, true
	})
	lib := library.New(config.DefaultConfig(), []apis.Factory{byName})
	mod := scope.New("mod", typeinfo.Define("mod:Gear"))

	if _, ok := lib.HandlerFor("mod:Gear"); ok {
		t.Fatal("resolved before the module scope was supplied")
	}
	h, ok := lib.HandlerFor("mod:Gear", mod)
	if !ok || tagOf(t, h) != "plugin" {
		t.Fatalf("HandlerFor with scope = (%v, %v)", h, ok)
	}
}

func TestResolve_OrderingDeterminism(t *testing.T) {
	for i := 0; i < 10; i++ {
		a := accepting("a", "y")
		b := accepting("b", "x", "y")
		c := accepting("c", "x")
		lib := library.New(config.DefaultConfig(), []apis.Factory{a, nil, b, c})

		hx, _ := lib.HandlerFor("x")
		hy, _ := lib.HandlerFor("y")
		if tagOf(t, hx) != "b" || tagOf(t, hy) != "a" {
			t.Fatalf("run %d: x -> %s, y -> %s; want b, a", i, tagOf(t, hx), tagOf(t, hy))
		}
		if c.calls.Load() != 0 {
			t.Fatalf("run %d: later factory consulted %d times", i, c.calls.Load())
		}
	}
}

func TestResolve_RecursiveComposition(t *testing.T) {
	lib := library.New(config.DefaultConfig(), builtin.Factories())

	h, ok := lib.Handler(builtin.PairOf(typeinfo.Of(builtin.IntType)))
	if !ok {
		t.Fatal("pair<int> not resolved")
	}
	enc, err := h.Encode(builtin.Pair{First: int64(3), Second: int64(4)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// The composite delegates both halves to the component handler.
	first, _ := enc.Index(0)
	want, _ := builtin.Int().Encode(int64(3))
	if !first.Equal(want) {
		t.Fatalf("first = %v, want %v", first, want)
	}
	if _, ok := lib.Handler(builtin.PairOf(typeinfo.Of("missing"))); ok {
		t.Fatal("pair<missing> resolved")
	}
	keys := []string{}
	for _, e := range lib.Entries() {
		keys = append(keys, e.Type.String())
	}
	if strings.Join(keys, ",") != "int,pair<int>" {
		t.Fatalf("Entries() = %v, want [int pair<int>]", keys)
	}
}

func TestResolve_Cycles(t *testing.T) {
	var calls atomic.Int64
	// a needs b, b needs a; self needs itself.
	needs := map[string]string{"a": "b", "b": "a", "self": "self"}
	f := factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		calls.Add(1)
		dep, ok := needs[d.Raw()]
		if !ok {
			return nil, false
		}
		if _, ok := ctx.ResolveRaw(dep); !ok {
			return nil, false
		}
		return &stubHandler{typ: d}, true
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	lib := library.New(config.DefaultConfig(), []apis.Factory{f}, library.WithLogger(logger))

	for _, raw := range []string{"self", "a", "b"} {
		if _, ok := lib.HandlerFor(raw); ok {
			t.Fatalf("cyclic type %q resolved", raw)
		}
	}
	// self: 1 build; a: a, b; b: b, a.
	if got := calls.Load(); got != 5 {
		t.Fatalf("factory calls = %d, want 5", got)
	}
	if lib.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", lib.Count())
	}
	if !strings.Contains(buf.String(), "cyclic type dependency") {
		t.Fatalf("log output missing cycle diagnostic:\n%s", buf.String())
	}
}

func TestResolve_MaxDepth(t *testing.T) {
	deep := typeinfo.MustParse("list<list<int>>")
	cfg := config.NewConfig(config.WithMaxDepth(2))

	lib := library.New(cfg, builtin.Factories())
	if _, ok := lib.Handler(deep); ok {
		t.Fatal("resolution past MaxDepth succeeded")
	}
	if lib.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", lib.Count())
	}
	if _, ok := lib.Handler(builtin.ListOf(typeinfo.Of(builtin.IntType))); !ok {
		t.Fatal("list<int> within MaxDepth not resolved")
	}

	if _, ok := library.New(config.DefaultConfig(), builtin.Factories()).Handler(deep); !ok {
		t.Fatal("list<list<int>> not resolved with the default depth")
	}
}

func TestContext_PropagatesScopesAndPath(t *testing.T) {
	var (
		mu     sync.Mutex
		path   []string
		scopes []string
	)
	f := factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		switch d.Raw() {
		case "outer":
			if _, ok := ctx.ResolveRaw("inner"); !ok {
				return nil, false
			}
		case "inner":
			mu.Lock()
			for _, p := range ctx.Path() {
				path = append(path, p.String())
			}
			for _, s := range ctx.Scopes() {
				scopes = append(scopes, s.Name())
			}
			mu.Unlock()
			if ctx.Library() == nil {
				return nil, false
			}
		default:
			return nil, false
		}
		return &stubHandler{typ: d}, true
	})
	lib := library.New(config.DefaultConfig(), []apis.Factory{f})
	a, b := scope.New("a"), scope.New("b")

	if _, ok := lib.HandlerFor("outer", a, nil, b); !ok {
		t.Fatal("outer not resolved")
	}
	if got := strings.Join(path, ","); got != "outer,inner" {
		t.Fatalf("Path() = %s, want outer,inner", got)
	}
	if got := strings.Join(scopes, ","); got != "a,b" {
		t.Fatalf("Scopes() = %s, want a,b", got)
	}
}

func TestResolve_ForeignContextKeepsScopes(t *testing.T) {
	s := scope.New("mod", typeinfo.Define("mod:Coin",
		typeinfo.Field{Name: "value", Type: typeinfo.Of(builtin.IntType)},
	))
	host := library.New(config.DefaultConfig(), nil)
	lib := library.New(config.DefaultConfig(), append(builtin.Factories(), builtin.RecordFactory()))

	ctx := host.Context(context.Background(), s)
	if _, ok := lib.Resolve(typeinfo.Of("mod:Coin"), ctx); !ok {
		t.Fatal("foreign context lost its scopes")
	}
	if _, ok := lib.Resolve(typeinfo.Of("mod:Other"), nil); ok {
		t.Fatal("nil context resolved an unscoped record")
	}
}

func hammer(t *testing.T, st strategy.Strategy) {
	var built atomic.Int64
	f := factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		if !strings.HasPrefix(d.Raw(), "t") {
			return nil, false
		}
		built.Add(1)
		runtime.Gosched()
		return &stubHandler{typ: d, tag: d.Raw()}, true
	})
	lib := library.New(config.NewConfig(config.WithStrategy(st)), []apis.Factory{f})
	raws := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7"}

	workers := runtime.GOMAXPROCS(0) * 4
	results := make([][]apis.Handler, workers)
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			out := make([]apis.Handler, len(raws))
			for i := 0; i < 200; i++ {
				j := (i + id) % len(raws)
				h, ok := lib.HandlerFor(raws[j])
				if !ok {
					t.Errorf("HandlerFor(%s) not found", raws[j])
					return
				}
				if out[j] != nil && out[j] != h {
					t.Errorf("HandlerFor(%s) returned a different handler", raws[j])
					return
				}
				out[j] = h
			}
			results[id] = out
		}(w)
	}
	wg.Wait()

	if lib.Count() != len(raws) {
		t.Fatalf("Count() = %d, want %d", lib.Count(), len(raws))
	}
	for j, raw := range raws {
		h, ok := lib.HandlerFor(raw)
		if !ok || tagOf(t, h) != raw {
			t.Fatalf("cached %s = (%v, %v)", raw, h, ok)
		}
		for w := range results {
			if results[w] != nil && results[w][j] != h {
				t.Fatalf("worker %d saw a handler for %s that was not published", w, raw)
			}
		}
	}
	if got := built.Load(); got < int64(len(raws)) || got > int64(len(raws)*workers) {
		t.Fatalf("builds = %d, want between %d and %d", got, len(raws), len(raws)*workers)
	}
}

func TestResolve_Concurrent_Shared(t *testing.T) {
	hammer(t, strategy.Shared)
}

func TestResolve_Concurrent_SingleFlight(t *testing.T) {
	hammer(t, strategy.SingleFlight)
}

// TestResolve_SingleFlight_ScopesDoNotShareFlight asserts that a scoped
// caller is not handed the result of an unscoped resolution in progress.
func TestResolve_SingleFlight_ScopesDoNotShareFlight(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	slow := factory.Func(func(_ typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		if len(ctx.Scopes()) == 0 {
			once.Do(func() { close(started) })
			<-release
		}
		return nil, false
	})
	byName := factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		if _, ok := ctx.Lookup(d.Raw()); !ok {
			return nil, false
		}
		return &stubHandler{typ: d, tag: "scoped"}, true
	})
	lib := library.New(config.NewConfig(config.WithStrategy(strategy.SingleFlight)), []apis.Factory{slow, byName})
	combat := scope.New("combat", typeinfo.Define("Weapon"))

	unscoped := make(chan bool, 1)
	go func() {
		_, ok := lib.HandlerFor("Weapon")
		unscoped <- ok
	}()
	<-started

	scoped := make(chan apis.Handler, 1)
	go func() {
		h, _ := lib.HandlerFor("Weapon", combat)
		scoped <- h
	}()
	select {
	case h := <-scoped:
		if h == nil || tagOf(t, h) != "scoped" {
			t.Fatalf("scoped HandlerFor = %v, want the scoped handler", h)
		}
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("scoped caller waited on the unscoped flight")
	}

	close(release)
	if ok := <-unscoped; ok {
		t.Fatal("unscoped HandlerFor resolved, want absent")
	}
}

func TestResolve_Tracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	lib := library.New(config.DefaultConfig(), builtin.Factories(),
		library.WithTracerProvider(tp), library.WithID("lib-1"))

	if _, ok := lib.Handler(builtin.ListOf(typeinfo.Of(builtin.IntType))); !ok {
		t.Fatal("list<int> not resolved")
	}
	if _, ok := lib.HandlerFor("missing"); ok {
		t.Fatal("missing resolved")
	}

	spans := rec.Ended()
	if len(spans) != 3 {
		t.Fatalf("ended spans = %d, want 3", len(spans))
	}
	byType := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		if s.Name() != "typehandling.resolve" {
			t.Fatalf("span name = %q", s.Name())
		}
		byType[attr(s.Attributes(), "typehandling.type")] = s
	}
	outer, inner := byType["list<int>"], byType["int"]
	if outer == nil || inner == nil {
		t.Fatalf("spans by type = %v", byType)
	}
	if inner.Parent().SpanID() != outer.SpanContext().SpanID() {
		t.Fatal("nested resolution span is not a child of its parent")
	}
	if got := attr(outer.Attributes(), "typehandling.outcome"); got != "created" {
		t.Fatalf("outcome = %q, want created", got)
	}
	if got := attr(outer.Attributes(), "typehandling.factory"); got != builtin.ListType {
		t.Fatalf("factory = %q, want %s", got, builtin.ListType)
	}
	if got := attr(inner.Attributes(), "typehandling.library"); got != "lib-1" {
		t.Fatalf("library = %q, want lib-1", got)
	}
	if got := attr(byType["missing"].Attributes(), "typehandling.outcome"); got != "absent" {
		t.Fatalf("missing outcome = %q, want absent", got)
	}
}

func attr(kvs []attribute.KeyValue, key string) string {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestResolve_LogMisses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := config.NewConfig(config.WithLogMisses(true))
	lib := library.New(cfg, nil, library.WithLogger(logger))

	lib.HandlerFor("ghost")
	out := buf.String()
	if !strings.Contains(out, "no handler") || !strings.Contains(out, "type=ghost") {
		t.Fatalf("log output = %q, want a warning for ghost", out)
	}
}

func TestLibrary_Accessors(t *testing.T) {
	a := accepting("a", "x")
	lib := library.New(config.NewConfig(config.WithMaxDepth(0)), []apis.Factory{a, nil}, library.WithID("fixed"))

	if lib.ID() != "fixed" {
		t.Fatalf("ID() = %q, want fixed", lib.ID())
	}
	if lib.Config().MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", lib.Config().MaxDepth, config.DefaultMaxDepth)
	}
	fs := lib.Factories()
	if len(fs) != 1 {
		t.Fatalf("Factories() len = %d, want 1", len(fs))
	}
	fs[0] = nil
	if lib.Factories()[0] == nil {
		t.Fatal("Factories() exposed internal storage")
	}
	if library.New(config.DefaultConfig(), nil).ID() == "" {
		t.Fatal("generated ID is empty")
	}
}

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

package chunks_test

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/typehandling/builder"
	"dirpx.dev/typehandling/builtin"
	"dirpx.dev/typehandling/config"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/mathtypes"
	"dirpx.dev/typehandling/scope"
	"dirpx.dev/typehandling/typeinfo"
	"dirpx.dev/typehandling/world/chunks"
)

type chunk = map[string]any

var chunkType = typeinfo.Of("world:Chunk")

func worldScope() *scope.Scope {
	return scope.New("world", typeinfo.Define(chunkType.Raw(),
		typeinfo.Field{Name: "biome", Type: typeinfo.Of(builtin.StringType)},
		typeinfo.Field{Name: "heights", Type: builtin.ListOf(typeinfo.Of(builtin.IntType))},
	))
}

func pos(x, y, z int32) mathtypes.Vector3i { return mathtypes.Vector3i{X: x, Y: y, Z: z} }

func TestCache_Basics(t *testing.T) {
	c := chunks.New[string]()
	c.Put(pos(1, 0, 0), "b")
	c.Put(pos(0, 5, 0), "a")
	c.Put(pos(0, 0, 9), "z")
	c.Put(pos(1, 0, 0), "b2")

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if got, ok := c.Get(pos(1, 0, 0)); !ok || got != "b2" {
		t.Fatalf("Get = (%q, %v), want (b2, true)", got, ok)
	}
	if _, ok := c.Get(pos(7, 7, 7)); ok {
		t.Fatal("Get found a chunk that was never stored")
	}
	want := []mathtypes.Vector3i{pos(0, 0, 9), pos(0, 5, 0), pos(1, 0, 0)}
	got := c.Positions()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Positions() = %v, want %v", got, want)
		}
	}
	if all := c.All(); len(all) != 3 || all[0] != "z" || all[2] != "b2" {
		t.Fatalf("All() = %v, want [z a b2]", all)
	}

	c.Remove(pos(0, 5, 0))
	if c.Contains(pos(0, 5, 0)) || c.Len() != 2 {
		t.Fatal("Remove did not drop the chunk")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", c.Len())
	}

	var zero chunks.Cache[int]
	zero.Put(pos(0, 0, 0), 1)
	if !zero.Contains(pos(0, 0, 0)) {
		t.Fatal("zero Cache is not usable")
	}
}

func TestEncodeLoad_RoundTrip(t *testing.T) {
	lib := builder.New().BuildLibrary(config.DefaultConfig(), nil, nil)
	ctx := lib.Context(context.Background(), worldScope())

	src := chunks.New[chunk]()
	src.Put(pos(0, 0, 0), chunk{"biome": "plains", "heights": []any{int64(1), int64(2)}})
	src.Put(pos(-1, 0, 3), chunk{"biome": "desert", "heights": []any{}})

	v, err := chunks.Encode(src, ctx, chunkType)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if v.Len() != 2 {
		t.Fatalf("encoded %d entries, want 2", v.Len())
	}
	first, _ := v.Index(0)
	p, _ := first.Get("pos")
	if !p.Equal(data.Sequence(data.Int(-1), data.Int(0), data.Int(3))) {
		t.Fatalf("first pos = %v, want [-1, 0, 3]", p)
	}

	dst := chunks.New[chunk]()
	if err := chunks.Load(dst, ctx, chunkType, v); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := dst.Get(pos(0, 0, 0))
	if !ok || got["biome"] != "plains" || len(got["heights"].([]any)) != 2 {
		t.Fatalf("loaded chunk = %v", got)
	}
	if dst.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dst.Len())
	}
}

func TestEncode_NoHandler(t *testing.T) {
	lib := builder.New().BuildLibrary(config.DefaultConfig(), nil, nil)
	c := chunks.New[chunk]()

	// The chunk type lives in a scope this context does not carry.
	_, err := chunks.Encode(c, lib.Context(context.Background()), chunkType)
	if !errors.Is(err, chunks.ErrNoHandler) {
		t.Fatalf("Encode error = %v, want ErrNoHandler", err)
	}
	if err := chunks.Load(c, lib.Context(context.Background()), chunkType, data.Sequence()); !errors.Is(err, chunks.ErrNoHandler) {
		t.Fatalf("Load error = %v, want ErrNoHandler", err)
	}
}

func TestLoad_RejectsMalformedInput(t *testing.T) {
	lib := builder.New().BuildLibrary(config.DefaultConfig(), nil, nil)
	ctx := lib.Context(context.Background(), worldScope())
	c := chunks.New[chunk]()

	good := data.Mapping(map[string]data.Value{
		"pos":   data.Sequence(data.Int(0), data.Int(0), data.Int(0)),
		"chunk": data.Mapping(map[string]data.Value{"biome": data.String("x"), "heights": data.Sequence()}),
	})
	bad := data.Mapping(map[string]data.Value{
		"pos":   data.Sequence(data.Int(1), data.Int(0)),
		"chunk": data.Mapping(map[string]data.Value{"biome": data.String("y"), "heights": data.Sequence()}),
	})
	err := chunks.Load(c, ctx, chunkType, data.Sequence(good, bad))
	var de *handler.DecodeError
	if !errors.As(err, &de) || de.Path != "[1].pos" || !errors.Is(err, handler.ErrLength) {
		t.Fatalf("Load error = %v, want ErrLength at [1].pos", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after a failed load", c.Len())
	}
	if err := chunks.Load(c, ctx, chunkType, data.Int(1)); !errors.Is(err, handler.ErrUnexpectedKind) {
		t.Fatalf("Load(Int) error = %v, want ErrUnexpectedKind", err)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := chunks.New[int]()
	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				p := pos(int32(id), int32(i%10), 0)
				c.Put(p, i)
				if !c.Contains(p) {
					t.Errorf("Contains(%v) = false after Put", p)
					return
				}
				_ = c.Positions()
			}
		}(w)
	}
	wg.Wait()
	if c.Len() != workers*10 {
		t.Fatalf("Len() = %d, want %d", c.Len(), workers*10)
	}
}

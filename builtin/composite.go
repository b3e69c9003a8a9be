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

package builtin

import (
	"fmt"
	"sort"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/typeinfo"
)

// Raw identities of the generic composites.
const (
	ListType = "list"
	MapType  = "map"
	PairType = "pair"
)

// Pair is the Go value of a pair<P>: two values of the component type.
type Pair struct {
	First  any
	Second any
}

// ListOf returns the descriptor list<elem>.
func ListOf(elem typeinfo.Descriptor) typeinfo.Descriptor { return typeinfo.Of(ListType, elem) }

// MapOf returns the descriptor map<value>.
func MapOf(value typeinfo.Descriptor) typeinfo.Descriptor { return typeinfo.Of(MapType, value) }

// PairOf returns the descriptor pair<c>.
func PairOf(c typeinfo.Descriptor) typeinfo.Descriptor {
	return typeinfo.Of(PairType, c)
}

// component resolves the single type argument of a raw<T> descriptor
// through ctx. It declines for any other shape.
func component(d typeinfo.Descriptor, raw string, ctx apis.Context) (apis.Handler, bool) {
	if ctx == nil || d.Raw() != raw || d.NumArgs() != 1 {
		return nil, false
	}
	arg, _ := d.Arg(0)
	return ctx.Resolve(arg)
}

// ListFactory returns the factory for list<T>, whose Go value is []any.
func ListFactory() apis.Factory {
	return factory.Named(ListType, factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		elem, ok := component(d, ListType, ctx)
		if !ok {
			return nil, false
		}
		return handler.New(d,
			func(items []any) (data.Value, error) {
				out := make([]data.Value, len(items))
				for i, item := range items {
					v, err := elem.Encode(item)
					if err != nil {
						return data.Value{}, handler.At(index(i), err)
					}
					out[i] = v
				}
				return data.Sequence(out...), nil
			},
			func(v data.Value) ([]any, error) {
				if v.Kind() != data.KindSequence {
					return nil, handler.Decoding(d, v, handler.ErrUnexpectedKind)
				}
				items := v.Items()
				out := make([]any, len(items))
				for i, item := range items {
					x, err := elem.Decode(item)
					if err != nil {
						return nil, handler.At(index(i), err)
					}
					out[i] = x
				}
				return out, nil
			},
		), true
	}))
}

// MapFactory returns the factory for map<V>, whose Go value is map[string]any.
func MapFactory() apis.Factory {
	return factory.Named(MapType, factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		elem, ok := component(d, MapType, ctx)
		if !ok {
			return nil, false
		}
		return handler.New(d,
			func(m map[string]any) (data.Value, error) {
				out := make(map[string]data.Value, len(m))
				for _, k := range sortedKeys(m) {
					v, err := elem.Encode(m[k])
					if err != nil {
						return data.Value{}, handler.At(k, err)
					}
					out[k] = v
				}
				return data.Mapping(out), nil
			},
			func(v data.Value) (map[string]any, error) {
				if v.Kind() != data.KindMapping {
					return nil, handler.Decoding(d, v, handler.ErrUnexpectedKind)
				}
				out := make(map[string]any, v.Len())
				for _, k := range v.Keys() {
					item, _ := v.Get(k)
					x, err := elem.Decode(item)
					if err != nil {
						return nil, handler.At(k, err)
					}
					out[k] = x
				}
				return out, nil
			},
		), true
	}))
}

// PairFactory returns the factory for pair<P>. A Pair encodes as a two element
// sequence, each element through the component handler.
func PairFactory() apis.Factory {
	return factory.Named(PairType, factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		elem, ok := component(d, PairType, ctx)
		if !ok {
			return nil, false
		}
		return handler.New(d,
			func(p Pair) (data.Value, error) {
				first, err := elem.Encode(p.First)
				if err != nil {
					return data.Value{}, handler.At("first", err)
				}
				second, err := elem.Encode(p.Second)
				if err != nil {
					return data.Value{}, handler.At("second", err)
				}
				return data.Sequence(first, second), nil
			},
			func(v data.Value) (Pair, error) {
				if v.Kind() != data.KindSequence {
					return Pair{}, handler.Decoding(d, v, handler.ErrUnexpectedKind)
				}
				if v.Len() != 2 {
					return Pair{}, handler.Decoding(d, v, handler.ErrLength)
				}
				a, _ := v.Index(0)
				b, _ := v.Index(1)
				first, err := elem.Decode(a)
				if err != nil {
					return Pair{}, handler.At("first", err)
				}
				second, err := elem.Decode(b)
				if err != nil {
					return Pair{}, handler.At("second", err)
				}
				return Pair{First: first, Second: second}, nil
			},
		), true
	}))
}

func index(i int) string { return fmt.Sprintf("[%d]", i) }

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

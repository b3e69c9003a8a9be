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

package mathtypes

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/factory"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/typeinfo"
)

// Rect2fFactory returns the factory for Rect2f. It resolves the Vector2f
// handler through the context and declines when none is available.
func Rect2fFactory() apis.Factory {
	return factory.Named("rect2f", factory.Func(func(d typeinfo.Descriptor, ctx apis.Context) (apis.Handler, bool) {
		if ctx == nil || d.IsGeneric() || d.Raw() != Rect2fType {
			return nil, false
		}
		vec, ok := ctx.ResolveRaw(Vector2fType)
		if !ok {
			return nil, false
		}
		return newRect2fHandler(d, vec), true
	}))
}

func newRect2fHandler(d typeinfo.Descriptor, vec apis.Handler) apis.Handler {
	return handler.New(d,
		func(r Rect2f) (data.Value, error) {
			lo, err := vec.Encode(r.Min)
			if err != nil {
				return data.Value{}, handler.At("min", err)
			}
			size, err := vec.Encode(r.Size)
			if err != nil {
				return data.Value{}, handler.At("size", err)
			}
			return data.Mapping(map[string]data.Value{"min": lo, "size": size}), nil
		},
		func(v data.Value) (Rect2f, error) {
			if v.Kind() != data.KindMapping {
				return Rect2f{}, handler.Decoding(d, v, handler.ErrUnexpectedKind)
			}
			lo, err := decodeCorner(d, vec, v, "min")
			if err != nil {
				return Rect2f{}, err
			}
			size, err := decodeCorner(d, vec, v, "size")
			if err != nil {
				return Rect2f{}, err
			}
			return Rect2f{Min: lo, Size: size}, nil
		},
	)
}

func decodeCorner(d typeinfo.Descriptor, vec apis.Handler, v data.Value, key string) (Vector2f, error) {
	item, ok := v.Get(key)
	if !ok {
		return Vector2f{}, handler.At(key, handler.Decoding(d, v, handler.ErrMissingField))
	}
	x, err := vec.Decode(item)
	if err != nil {
		return Vector2f{}, handler.At(key, err)
	}
	out, ok := x.(Vector2f)
	if !ok {
		return Vector2f{}, handler.At(key, handler.Decoding(d, item, handler.ErrWrongType))
	}
	return out, nil
}

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

// Package handler provides helpers for writing apis.Handler implementations
// and the typed failures they report.
package handler

import (
	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/typeinfo"
)

// New builds an apis.Handler for d around typed encode/decode functions.
// Encode rejects values that are not a T with an EncodeError wrapping
// ErrWrongType. enc and dec must be safe for concurrent use.
func New[T any](d typeinfo.Descriptor, enc func(T) (data.Value, error), dec func(data.Value) (T, error)) apis.Handler {
	return &typed[T]{typ: d, enc: enc, dec: dec}
}

// typed adapts typed functions to the type-erased apis.Handler.
type typed[T any] struct {
	typ typeinfo.Descriptor
	enc func(T) (data.Value, error)
	dec func(data.Value) (T, error)
}

// Ensure typed implements apis.Handler.
var _ apis.Handler = (*typed[int])(nil)

func (h *typed[T]) Type() typeinfo.Descriptor { return h.typ }

func (h *typed[T]) Encode(v any) (data.Value, error) {
	tv, ok := v.(T)
	if !ok {
		return data.Value{}, Encoding(h.typ, v, ErrWrongType)
	}
	return h.enc(tv)
}

func (h *typed[T]) Decode(v data.Value) (any, error) {
	out, err := h.dec(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Typed is a statically typed view over a type-erased handler.
type Typed[T any] struct {
	h apis.Handler
}

// As returns a Typed view of h.
func As[T any](h apis.Handler) Typed[T] {
	return Typed[T]{h: h}
}

// Handler returns the underlying handler.
func (t Typed[T]) Handler() apis.Handler { return t.h }

// Encode serializes v.
func (t Typed[T]) Encode(v T) (data.Value, error) {
	return t.h.Encode(v)
}

// Decode reconstructs a T from v. A decoded value of another Go type is
// reported as a DecodeError wrapping ErrWrongType.
func (t Typed[T]) Decode(v data.Value) (T, error) {
	var zero T
	out, err := t.h.Decode(v)
	if err != nil {
		return zero, err
	}
	tv, ok := out.(T)
	if !ok {
		return zero, Decoding(t.h.Type(), v, ErrWrongType)
	}
	return tv, nil
}

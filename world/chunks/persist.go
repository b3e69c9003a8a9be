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

package chunks

import (
	"errors"
	"fmt"

	"dirpx.dev/typehandling/apis"
	"dirpx.dev/typehandling/data"
	"dirpx.dev/typehandling/handler"
	"dirpx.dev/typehandling/mathtypes"
	"dirpx.dev/typehandling/typeinfo"
)

// ErrNoHandler is returned when the resolution context yields no handler
// for the position or chunk type.
var ErrNoHandler = errors.New("typehandling(chunks): no handler")

// Keys of each encoded entry.
const (
	posKey   = "pos"
	chunkKey = "chunk"
)

// handlers resolves the position and chunk handlers through ctx.
func handlers(ctx apis.Context, chunkType typeinfo.Descriptor) (pos, chunk apis.Handler, err error) {
	pos, ok := ctx.ResolveRaw(mathtypes.Vector3iType)
	if !ok {
		return nil, nil, fmt.Errorf("%w for %s", ErrNoHandler, mathtypes.Vector3iType)
	}
	chunk, ok = ctx.Resolve(chunkType)
	if !ok {
		return nil, nil, fmt.Errorf("%w for %s", ErrNoHandler, chunkType)
	}
	return pos, chunk, nil
}

// Encode serializes every cached chunk as a sequence of {pos, chunk}
// mappings in Positions order. Handlers are resolved through ctx, so chunk
// types defined by plugins need their scopes on ctx.
func Encode[C any](c *Cache[C], ctx apis.Context, chunkType typeinfo.Descriptor) (data.Value, error) {
	posH, chunkH, err := handlers(ctx, chunkType)
	if err != nil {
		return data.Value{}, err
	}
	positions := c.Positions()
	out := make([]data.Value, 0, len(positions))
	for i, pos := range positions {
		chunk, ok := c.Get(pos)
		if !ok {
			// Removed since the snapshot was taken.
			continue
		}
		p, err := posH.Encode(pos)
		if err != nil {
			return data.Value{}, handler.At(fmt.Sprintf("[%d].%s", i, posKey), err)
		}
		v, err := chunkH.Encode(chunk)
		if err != nil {
			return data.Value{}, handler.At(fmt.Sprintf("[%d].%s", i, chunkKey), err)
		}
		out = append(out, data.Mapping(map[string]data.Value{posKey: p, chunkKey: v}))
	}
	return data.Sequence(out...), nil
}

// Load decodes a value produced by Encode and puts every chunk into c.
// Nothing is stored when any entry fails to decode.
func Load[C any](c *Cache[C], ctx apis.Context, chunkType typeinfo.Descriptor, v data.Value) error {
	posH, chunkH, err := handlers(ctx, chunkType)
	if err != nil {
		return err
	}
	if v.Kind() != data.KindSequence {
		return handler.Decoding(chunkType, v, handler.ErrUnexpectedKind)
	}

	type entry struct {
		pos   mathtypes.Vector3i
		chunk C
	}
	items := v.Items()
	entries := make([]entry, 0, len(items))
	for i, item := range items {
		at := fmt.Sprintf("[%d]", i)
		rawPos, ok := item.Get(posKey)
		if !ok {
			return handler.At(at, handler.Decoding(chunkType, item, handler.ErrMissingField))
		}
		rawChunk, ok := item.Get(chunkKey)
		if !ok {
			return handler.At(at, handler.Decoding(chunkType, item, handler.ErrMissingField))
		}
		p, err := posH.Decode(rawPos)
		if err != nil {
			return handler.At(at+"."+posKey, err)
		}
		pos, ok := p.(mathtypes.Vector3i)
		if !ok {
			return handler.At(at+"."+posKey, handler.Decoding(chunkType, rawPos, handler.ErrWrongType))
		}
		x, err := chunkH.Decode(rawChunk)
		if err != nil {
			return handler.At(at+"."+chunkKey, err)
		}
		chunk, ok := x.(C)
		if !ok {
			return handler.At(at+"."+chunkKey, handler.Decoding(chunkType, rawChunk, handler.ErrWrongType))
		}
		entries = append(entries, entry{pos: pos, chunk: chunk})
	}
	for _, e := range entries {
		c.Put(e.pos, e.chunk)
	}
	return nil
}
